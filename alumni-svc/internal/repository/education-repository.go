package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
)

type EducationRepository interface {
	CreateEducation(ctx context.Context, edu *domain.Education) error
	ListByAlumni(ctx context.Context, alumniID uint) ([]domain.Education, error)
	// DeleteOwned removes the row only when it belongs to alumniID.
	DeleteOwned(ctx context.Context, alumniID, id uint) error
}

type educationRepository struct {
	db *gorm.DB
}

func NewEducationRepository(db *gorm.DB) EducationRepository {
	return &educationRepository{db: db}
}

func (r *educationRepository) CreateEducation(ctx context.Context, edu *domain.Education) error {
	if edu == nil {
		return errors.New("nil education")
	}
	return r.db.WithContext(ctx).Create(edu).Error
}

func (r *educationRepository) ListByAlumni(ctx context.Context, alumniID uint) ([]domain.Education, error) {
	var items []domain.Education
	err := r.db.WithContext(ctx).
		Where("alumni_id = ?", alumniID).
		Order("start_year DESC").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

func (r *educationRepository) DeleteOwned(ctx context.Context, alumniID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND alumni_id = ?", id, alumniID).
		Delete(&domain.Education{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
