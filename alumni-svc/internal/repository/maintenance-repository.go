package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
)

// MaintenanceRepository reads and writes the singleton maintenance row.
// Nothing is cached: every Get hits the database.
type MaintenanceRepository interface {
	Get(ctx context.Context) (*domain.MaintenanceMode, error)
	Set(ctx context.Context, enabled bool, message string, actorID uint, now time.Time) (*domain.MaintenanceMode, error)
}

type maintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Get(ctx context.Context) (*domain.MaintenanceMode, error) {
	m := &domain.MaintenanceMode{}
	err := r.db.WithContext(ctx).First(m, domain.MaintenanceSingletonID).Error
	if err != nil {
		// a missing row means the switch was never touched
		if err = notFound(err); err == ErrNotFound {
			return &domain.MaintenanceMode{ID: domain.MaintenanceSingletonID}, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *maintenanceRepository) Set(ctx context.Context, enabled bool, message string, actorID uint, now time.Time) (*domain.MaintenanceMode, error) {
	m := &domain.MaintenanceMode{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(m, domain.MaintenanceSingletonID).Error
		if err != nil {
			if notFound(err) != ErrNotFound {
				return err
			}
			m = &domain.MaintenanceMode{ID: domain.MaintenanceSingletonID}
		}

		m.IsEnabled = enabled
		m.Message = message
		if enabled {
			by := actorID
			m.EnabledBy = &by
			m.EnabledAt = &now
		} else {
			m.DisabledAt = &now
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
