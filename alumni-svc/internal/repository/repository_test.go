package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/testutil"
)

func TestAlumniRepository_FindByVerification(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAlumniRepository(db)

	pending := &domain.Alumni{Email: "a@x.com", FirstName: "A", Role: domain.RoleBaseMember}
	require.NoError(t, repo.CreateAlumni(ctx, pending))

	_, err := repo.FindVerifiedByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.FindUnverifiedByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
	assert.False(t, got.Verified)

	got.Verified = true
	require.NoError(t, repo.SaveAlumni(ctx, got))

	verified, err := repo.FindVerifiedByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, pending.ID, verified.ID)

	_, err = repo.FindUnverifiedByEmail(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAlumniRepository_VerifiedEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAlumniRepository(db)

	testutil.SeedAlumni(t, db, "dup@x.com", domain.RoleBaseMember)

	// unverified rows may share the address
	require.NoError(t, repo.CreateAlumni(ctx, &domain.Alumni{Email: "dup@x.com", Role: domain.RoleBaseMember}))

	err := repo.CreateAlumni(ctx, &domain.Alumni{Email: "dup@x.com", Role: domain.RoleBaseMember, Verified: true})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestAlumniRepository_ListAndStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAlumniRepository(db)

	testutil.SeedAlumni(t, db, "a@x.com", domain.RoleBaseMember)
	testutil.SeedAlumni(t, db, "b@x.com", domain.RoleModerator)
	other := &domain.Alumni{Email: "c@x.com", Department: "Physics", PassingYear: 2021, Role: domain.RoleBaseMember, Verified: true}
	require.NoError(t, repo.CreateAlumni(ctx, other))
	require.NoError(t, repo.CreateAlumni(ctx, &domain.Alumni{Email: "d@x.com", Role: domain.RoleBaseMember}))

	items, total, err := repo.ListAlumni(ctx, repository.AlumniFilter{}, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, items, 2)

	verified := true
	items, total, err = repo.ListAlumni(ctx, repository.AlumniFilter{Department: "Physics", Verified: &verified}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "c@x.com", items[0].Email)

	n, err := repo.CountAlumni(ctx, &verified)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	byDept, err := repo.CountByDepartment(ctx)
	require.NoError(t, err)
	require.Len(t, byDept, 2)
	assert.Equal(t, "Computer Science", byDept[0].Key)
	assert.EqualValues(t, 2, byDept[0].Count)

	byYear, err := repo.CountByPassingYear(ctx)
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	assert.Equal(t, "2019", byYear[0].Key)
	assert.Equal(t, "2021", byYear[1].Key)

	byRole, err := repository.NewRoleRepository(db).CountByRole(ctx)
	require.NoError(t, err)
	assert.Len(t, byRole, 2)
}

func TestAlumniRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAlumniRepository(db)
	otps := repository.NewOTPRepository(db)
	edu := repository.NewEducationRepository(db)

	a := testutil.SeedAlumni(t, db, "a@x.com", domain.RoleBaseMember)
	require.NoError(t, otps.CreateOTP(ctx, &domain.OTP{AlumniID: a.ID, Code: "123456", Purpose: domain.OTPLogin, ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, edu.CreateEducation(ctx, &domain.Education{AlumniID: a.ID, Institution: "KES", Degree: "B.Sc", StartYear: 2015}))

	require.NoError(t, repo.DeleteAlumni(ctx, a.ID))

	_, err := repo.FindAlumniByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := otps.CountForAlumni(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := edu.ListByAlumni(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, repo.DeleteAlumni(ctx, a.ID), repository.ErrNotFound)
}

func TestOTPRepository_LatestUnusedAndMarkUsed(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewOTPRepository(db)
	a := testutil.SeedAlumni(t, db, "a@x.com", domain.RoleBaseMember)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first := &domain.OTP{AlumniID: a.ID, Code: "111111", Purpose: domain.OTPRegistrationEmail, ExpiresAt: base.Add(10 * time.Minute), CreatedAt: base}
	second := &domain.OTP{AlumniID: a.ID, Code: "222222", Purpose: domain.OTPRegistrationPhone, ExpiresAt: base.Add(11 * time.Minute), CreatedAt: base.Add(time.Minute)}
	login := &domain.OTP{AlumniID: a.ID, Code: "333333", Purpose: domain.OTPLogin, ExpiresAt: base.Add(12 * time.Minute), CreatedAt: base.Add(2 * time.Minute)}
	for _, o := range []*domain.OTP{first, second, login} {
		require.NoError(t, repo.CreateOTP(ctx, o))
	}

	got, err := repo.FindLatestUnused(ctx, a.ID, domain.RegistrationPurposes)
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)

	got, err = repo.FindLatestUnused(ctx, a.ID, []domain.OTPPurpose{domain.OTPLogin})
	require.NoError(t, err)
	assert.Equal(t, "333333", got.Code)

	ok, err := repo.MarkUsed(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkUsed(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a used code cannot be consumed twice")

	got, err = repo.FindLatestUnused(ctx, a.ID, domain.RegistrationPurposes)
	require.NoError(t, err)
	assert.Equal(t, "111111", got.Code)

	_, err = repo.FindLatestUnused(ctx, a.ID, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOTPRepository_MarkUsedIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewOTPRepository(db)
	a := testutil.SeedAlumni(t, db, "a@x.com", domain.RoleBaseMember)

	otp := &domain.OTP{AlumniID: a.ID, Code: "424242", Purpose: domain.OTPLogin, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.CreateOTP(ctx, otp))

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkUsed(ctx, otp.ID)
			if err == nil && ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewRoleRepository(db)
	a := testutil.SeedAlumni(t, db, "a@x.com", domain.RoleBaseMember)

	status, err := repo.GetRoleByAlumniID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBaseMember, status.Role)
	assert.True(t, status.Verified)

	require.NoError(t, repo.SetRole(ctx, a.ID, domain.RoleModerator))

	status, err = repo.GetRoleByAlumniID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, status.Role)

	_, err = repo.GetRoleByAlumniID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.SetRole(ctx, 9999, domain.RoleModerator), repository.ErrNotFound)
}

func TestMaintenanceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewMaintenanceRepository(db)

	m, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, m.IsEnabled)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m, err = repo.Set(ctx, true, "Back soon", 7, now)
	require.NoError(t, err)
	assert.True(t, m.IsEnabled)
	require.NotNil(t, m.EnabledBy)
	assert.EqualValues(t, 7, *m.EnabledBy)

	m, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, m.IsEnabled)
	assert.Equal(t, "Back soon", m.Message)

	m, err = repo.Set(ctx, false, "", 7, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, m.IsEnabled)
	require.NotNil(t, m.DisabledAt)
	assert.NotNil(t, m.EnabledAt)

	// migrating again keeps the existing row
	require.NoError(t, repository.Migrate(db))
	m, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, m.IsEnabled)
}

func TestNewsAndEducationRepositories(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	news := repository.NewNewsRepository(db)
	edu := repository.NewEducationRepository(db)
	a := testutil.SeedAlumni(t, db, "a@x.com", domain.RoleModerator)
	b := testutil.SeedAlumni(t, db, "b@x.com", domain.RoleBaseMember)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := &domain.NewsArticle{Title: "Old", Content: "x", AuthorID: &a.ID, CreatedAt: base}
	newer := &domain.NewsArticle{Title: "New", Content: "y", AuthorID: &a.ID, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, news.CreateArticle(ctx, older))
	require.NoError(t, news.CreateArticle(ctx, newer))

	items, total, err := news.ListArticles(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "New", items[0].Title)

	require.NoError(t, news.DeleteArticle(ctx, older.ID))
	assert.ErrorIs(t, news.DeleteArticle(ctx, older.ID), repository.ErrNotFound)

	row := &domain.Education{AlumniID: a.ID, Institution: "KES", Degree: "B.Sc", StartYear: 2015}
	require.NoError(t, edu.CreateEducation(ctx, row))

	assert.ErrorIs(t, edu.DeleteOwned(ctx, b.ID, row.ID), repository.ErrNotFound)
	require.NoError(t, edu.DeleteOwned(ctx, a.ID, row.ID))
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAuditRepository(db)

	require.NoError(t, repo.Record(ctx, &domain.AuditLog{ActorID: 1, Action: domain.AuditActionRoleChanged, Entity: "alumni", EntityID: 5}))
	require.NoError(t, repo.Record(ctx, &domain.AuditLog{ActorID: 1, Action: domain.AuditActionAlumniDeleted, Entity: "alumni", EntityID: 5}))

	rows, err := repo.ListByEntity(ctx, "alumni", 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.AuditActionRoleChanged, rows[0].Action)
}
