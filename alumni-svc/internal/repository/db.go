package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/pkg/xlog"
)

// ErrNotFound is returned by every repository lookup that matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate record")

func OpenDatabase(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormCfg := &gorm.Config{TranslateError: true}
	if logger != nil {
		gormCfg.Logger = xlog.NewGormLogger(logger, gormLogger.Warn, time.Second)
	} else {
		gormCfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema, the verified-contact unique indexes and the
// maintenance row. It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Alumni{},
		&domain.OTP{},
		&domain.NewsArticle{},
		&domain.Education{},
		&domain.MaintenanceMode{},
		&domain.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// MySQL has no partial indexes; there the lifecycle manager's lookup is the only guard.
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		stmts := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS uidx_alumni_verified_email ON alumni (email) WHERE verified AND email <> ''`,
			`CREATE UNIQUE INDEX IF NOT EXISTS uidx_alumni_verified_phone ON alumni (phone) WHERE verified AND phone <> ''`,
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create partial index: %w", err)
			}
		}
	}

	return seedMaintenance(db)
}

func seedMaintenance(db *gorm.DB) error {
	var m domain.MaintenanceMode
	err := db.First(&m, domain.MaintenanceSingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&domain.MaintenanceMode{ID: domain.MaintenanceSingletonID}).Error
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
