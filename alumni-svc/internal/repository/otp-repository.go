package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
)

type OTPRepository interface {
	CreateOTP(ctx context.Context, otp *domain.OTP) error
	// FindLatestUnused returns the newest unused code of any of the given purposes.
	FindLatestUnused(ctx context.Context, alumniID uint, purposes []domain.OTPPurpose) (*domain.OTP, error)
	// MarkUsed flips used to true only if it is still false. It reports whether
	// this call was the one that consumed the code.
	MarkUsed(ctx context.Context, id uint) (bool, error)
	CountForAlumni(ctx context.Context, alumniID uint) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) CreateOTP(ctx context.Context, otp *domain.OTP) error {
	if otp == nil {
		return errors.New("nil otp")
	}
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) FindLatestUnused(ctx context.Context, alumniID uint, purposes []domain.OTPPurpose) (*domain.OTP, error) {
	if len(purposes) == 0 {
		return nil, ErrNotFound
	}

	tags := make([]string, 0, len(purposes))
	for _, p := range purposes {
		tags = append(tags, string(p))
	}

	otp := &domain.OTP{}
	// id breaks ties between codes created within the same clock tick
	err := r.db.WithContext(ctx).
		Where("alumni_id = ? AND used = ? AND purpose IN ?", alumniID, false, tags).
		Order("created_at DESC").
		Order("id DESC").
		First(otp).Error
	if err != nil {
		return nil, notFound(err)
	}
	return otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.OTP{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *otpRepository) CountForAlumni(ctx context.Context, alumniID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OTP{}).Where("alumni_id = ?", alumniID).Count(&n).Error
	return n, err
}
