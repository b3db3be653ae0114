package api

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/config"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/infra/notify"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/infra/queue"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/infra/ratelimit"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/api/rest/handlers"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/api/rest/middleware"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/interfaces"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/pkg/cloudinary"
)

// same lock number on every instance so only one of them migrates at a time
const migrateLockID int64 = 20260222

const shutdownTimeout = 10 * time.Second

// Deps is everything the HTTP app needs. Limiter and Uploader may be nil.
type Deps struct {
	DB           *gorm.DB
	Auth         helper.Auth
	Notifier     interfaces.Notifier
	Limiter      interfaces.RateLimiter
	Uploader     interfaces.Uploader
	OTPTTL       time.Duration
	AllowOrigins string
	Logger       *zap.Logger
}

// NewApp builds the fiber app with every route registered. It does not listen.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          utils.ErrorHandler(d.Logger),
		BodyLimit:             services.MaxPhotoSize + 1<<20,
		DisableStartupMessage: true,
	})

	// ---------- Middleware ----------
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.RequestLogger(d.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowOrigins,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: d.AllowOrigins != "*",
	}))

	// ---------- Repositories ----------
	alumniRepo := repository.NewAlumniRepository(d.DB)
	otpRepo := repository.NewOTPRepository(d.DB)
	roleRepo := repository.NewRoleRepository(d.DB)
	newsRepo := repository.NewNewsRepository(d.DB)
	eduRepo := repository.NewEducationRepository(d.DB)
	maintRepo := repository.NewMaintenanceRepository(d.DB)
	auditRepo := repository.NewAuditRepository(d.DB)

	// ---------- Services ----------
	authSvc := services.NewAuthService(alumniRepo, otpRepo, d.Notifier, d.Limiter, d.Auth, d.OTPTTL, d.Logger)
	profileSvc := services.NewProfileService(alumniRepo, eduRepo, d.Uploader, d.Logger)
	newsSvc := services.NewNewsService(newsRepo)
	adminSvc := services.NewAdminService(alumniRepo, roleRepo, auditRepo, d.Logger)
	maintSvc := services.NewMaintenanceService(maintRepo, auditRepo, d.Logger)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Routes ----------
	api := app.Group("/api", middleware.MaintenanceGate(maintRepo, roleRepo, d.Auth))
	guards := handlers.Guards{
		Authenticated: middleware.AuthMiddleware(d.Auth),
		Member:        middleware.RequireRoles(roleRepo, domain.AllRoles...),
		Staff:         middleware.RequireRoles(roleRepo, domain.StaffRoles...),
		Super:         middleware.RequireRoles(roleRepo, domain.RoleSuperModerator),
	}

	handlers.NewAuthHandler(authSvc).SetupRoutes(api)
	handlers.NewMaintenanceHandler(maintSvc, d.Auth).SetupRoutes(api, guards)
	handlers.NewProfileHandler(profileSvc, d.Auth).SetupRoutes(api, guards)
	handlers.NewNewsHandler(newsSvc, d.Auth).SetupRoutes(api, guards)
	handlers.NewAdminHandler(adminSvc, d.Auth).SetupRoutes(api, guards)

	return app
}

// StartServer wires the infrastructure from cfg and serves until SIGINT/SIGTERM.
func StartServer(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------- DB ----------
	db, err := repository.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	logger.Info("database connected", zap.String("driver", cfg.DatabaseDriver))

	if err := migrate(db); err != nil {
		return err
	}
	logger.Info("migration successful")

	// ---------- Infra ----------
	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()

	var limiter interfaces.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		limiter = ratelimit.NewOTPLimiter(rdb, cfg.OTPRateWindow, cfg.OTPRateMax, cfg.OTPRateCooldown)
		logger.Info("otp rate limiter enabled", zap.String("redis", cfg.RedisAddr))
	}

	var uploader interfaces.Uploader
	if cfg.CloudinaryUrl != "" {
		cld, err := cloudinary.NewFromURL(cfg.CloudinaryUrl)
		if err != nil {
			return fmt.Errorf("cloudinary init: %w", err)
		}
		uploader = cloudinary.NewCloudinaryUploader(cld)
	} else {
		logger.Warn("CLOUDINARY_URL not set, photo uploads are disabled")
	}

	app := NewApp(Deps{
		DB:           db,
		Auth:         helper.SetupAuth(cfg.AccessSecret, cfg.TokenTTL),
		Notifier:     notifier,
		Limiter:      limiter,
		Uploader:     uploader,
		OTPTTL:       cfg.OTPTTL,
		AllowOrigins: cfg.BaseURL,
		Logger:       logger,
	})

	// ---------- Listen ----------
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ServerPort))
		errCh <- app.Listen(cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// migrate holds a postgres advisory lock while migrating so parallel starts
// do not race on DDL.
func migrate(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return repository.Migrate(db)
	}

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	defer db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID)

	return repository.Migrate(db)
}

func buildNotifier(cfg config.Config, logger *zap.Logger) (interfaces.Notifier, func()) {
	closer := func() {}

	var email interfaces.Notifier
	switch cfg.EmailNotifier {
	case "sendgrid":
		email = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	case "log":
		email = notify.NewLogNotifier(logger)
	default:
		producer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword, logger)
		closer = func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", zap.Error(err))
			}
		}
		email = notify.NewKafkaNotifier(producer)
		logger.Info("kafka notifier", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}

	var sms interfaces.Notifier
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		sms = notify.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.MailFromName)
	} else {
		logger.Warn("twilio not configured, phone registration codes cannot be delivered")
	}

	return notify.NewRouter(email, sms), closer
}
