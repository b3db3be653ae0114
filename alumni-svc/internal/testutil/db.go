package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
)

// NewDB opens a private in-memory SQLite database with the production schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.OpenDatabase("sqlite", dsn, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return db
}

// SeedAlumni inserts a verified alumni with the given role.
func SeedAlumni(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.Alumni {
	t.Helper()

	a := &domain.Alumni{
		Email:       email,
		FirstName:   "Test",
		LastName:    "Alumni",
		JoiningYear: 2015,
		PassingYear: 2019,
		Department:  "Computer Science",
		College:     "KES College",
		Course:      "B.Sc",
		Role:        role,
		Verified:    true,
	}
	require.NoError(t, repository.NewAlumniRepository(db).CreateAlumni(context.Background(), a))
	return a
}
