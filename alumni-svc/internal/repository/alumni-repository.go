package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
)

type AlumniFilter struct {
	Department string
	Verified   *bool
}

type AlumniRepository interface {
	CreateAlumni(ctx context.Context, alumni *domain.Alumni) error
	SaveAlumni(ctx context.Context, alumni *domain.Alumni) error
	FindAlumniByID(ctx context.Context, id uint) (*domain.Alumni, error)
	FindVerifiedByEmail(ctx context.Context, email string) (*domain.Alumni, error)
	FindVerifiedByPhone(ctx context.Context, phone string) (*domain.Alumni, error)
	FindUnverifiedByEmail(ctx context.Context, email string) (*domain.Alumni, error)
	FindUnverifiedByPhone(ctx context.Context, phone string) (*domain.Alumni, error)
	DeleteAlumni(ctx context.Context, id uint) error
	ListAlumni(ctx context.Context, filter AlumniFilter, limit, offset int) ([]domain.Alumni, int64, error)
	CountAlumni(ctx context.Context, verified *bool) (int64, error)
	CountByDepartment(ctx context.Context) ([]dto.GroupCount, error)
	CountByPassingYear(ctx context.Context) ([]dto.GroupCount, error)
}

type alumniRepository struct {
	db *gorm.DB
}

func NewAlumniRepository(db *gorm.DB) AlumniRepository {
	return &alumniRepository{db: db}
}

func (r *alumniRepository) CreateAlumni(ctx context.Context, alumni *domain.Alumni) error {
	if alumni == nil {
		return errors.New("nil alumni")
	}
	if err := r.db.WithContext(ctx).Create(alumni).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *alumniRepository) SaveAlumni(ctx context.Context, alumni *domain.Alumni) error {
	if alumni == nil {
		return errors.New("nil alumni")
	}
	if err := r.db.WithContext(ctx).Save(alumni).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *alumniRepository) FindAlumniByID(ctx context.Context, id uint) (*domain.Alumni, error) {
	alumni := &domain.Alumni{}
	if err := r.db.WithContext(ctx).First(alumni, id).Error; err != nil {
		return nil, notFound(err)
	}
	return alumni, nil
}

func (r *alumniRepository) findOne(ctx context.Context, column, value string, verified bool) (*domain.Alumni, error) {
	if value == "" {
		return nil, ErrNotFound
	}
	alumni := &domain.Alumni{}
	// newest first so a reused unverified row is the latest one the user touched
	err := r.db.WithContext(ctx).
		Where(column+" = ? AND verified = ?", value, verified).
		Order("id DESC").
		First(alumni).Error
	if err != nil {
		return nil, notFound(err)
	}
	return alumni, nil
}

func (r *alumniRepository) FindVerifiedByEmail(ctx context.Context, email string) (*domain.Alumni, error) {
	return r.findOne(ctx, "email", email, true)
}

func (r *alumniRepository) FindVerifiedByPhone(ctx context.Context, phone string) (*domain.Alumni, error) {
	return r.findOne(ctx, "phone", phone, true)
}

func (r *alumniRepository) FindUnverifiedByEmail(ctx context.Context, email string) (*domain.Alumni, error) {
	return r.findOne(ctx, "email", email, false)
}

func (r *alumniRepository) FindUnverifiedByPhone(ctx context.Context, phone string) (*domain.Alumni, error) {
	return r.findOne(ctx, "phone", phone, false)
}

// DeleteAlumni removes the alumni together with its codes and education rows.
func (r *alumniRepository) DeleteAlumni(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("alumni_id = ?", id).Delete(&domain.OTP{}).Error; err != nil {
			return err
		}
		if err := tx.Where("alumni_id = ?", id).Delete(&domain.Education{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.NewsArticle{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Alumni{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *alumniRepository) ListAlumni(ctx context.Context, filter AlumniFilter, limit, offset int) ([]domain.Alumni, int64, error) {
	limit, offset = clampPage(limit, offset)

	q := r.db.WithContext(ctx).Model(&domain.Alumni{})
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Verified != nil {
		q = q.Where("verified = ?", *filter.Verified)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Alumni
	if err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *alumniRepository) CountAlumni(ctx context.Context, verified *bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Alumni{})
	if verified != nil {
		q = q.Where("verified = ?", *verified)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *alumniRepository) CountByDepartment(ctx context.Context) ([]dto.GroupCount, error) {
	var rows []struct {
		Department string
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Select("department, COUNT(*) AS count").
		Where("verified = ?", true).
		Group("department").
		Order("count DESC, department ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.GroupCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.GroupCount{Key: row.Department, Count: row.Count})
	}
	return out, nil
}

func (r *alumniRepository) CountByPassingYear(ctx context.Context) ([]dto.GroupCount, error) {
	var rows []struct {
		PassingYear int
		Count       int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Select("passing_year, COUNT(*) AS count").
		Where("verified = ?", true).
		Group("passing_year").
		Order("passing_year ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.GroupCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.GroupCount{Key: strconv.Itoa(row.PassingYear), Count: row.Count})
	}
	return out, nil
}
