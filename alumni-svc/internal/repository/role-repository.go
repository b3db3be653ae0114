package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
)

// RoleStatus is the part of an alumni row the access gate needs.
type RoleStatus struct {
	Role     domain.Role
	Verified bool
}

type RoleRepository interface {
	GetRoleByAlumniID(ctx context.Context, alumniID uint) (RoleStatus, error)
	SetRole(ctx context.Context, alumniID uint, role domain.Role) error
	CountByRole(ctx context.Context) ([]dto.GroupCount, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetRoleByAlumniID(ctx context.Context, alumniID uint) (RoleStatus, error) {
	var row struct {
		Role     string
		Verified bool
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Select("role, verified").
		Where("id = ?", alumniID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return RoleStatus{}, res.Error
	}
	if res.RowsAffected == 0 {
		return RoleStatus{}, ErrNotFound
	}
	return RoleStatus{Role: domain.Role(row.Role), Verified: row.Verified}, nil
}

func (r *roleRepository) SetRole(ctx context.Context, alumniID uint, role domain.Role) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Where("id = ?", alumniID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) CountByRole(ctx context.Context) ([]dto.GroupCount, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Alumni{}).
		Select("role, COUNT(*) AS count").
		Where("verified = ?", true).
		Group("role").
		Order("role ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.GroupCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.GroupCount{Key: row.Role, Count: row.Count})
	}
	return out, nil
}
