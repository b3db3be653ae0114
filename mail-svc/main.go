package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/config"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/infra/queue"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/internal/api/rest/handlers"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/internal/services"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/pkg/xlog"
)

func main() {
	// ---------- Load Config ----------
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := xlog.New(xlog.Options{
		App:   "mail-svc",
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------- Init Service ----------
	sender := services.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPTimeout)
	mailService := services.NewMailService(sender, cfg.MailFrom, cfg.MailFromName, cfg.PortalURL, logger)

	// ---------- Init Handler ----------
	handler := handlers.NewMailHandler(mailService, logger)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
		logger,
	)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("consumer close failed", zap.Error(err))
		}
	}()

	// ---------- Start Listening ----------
	logger.Info("listening for events",
		zap.String("broker", cfg.KafkaBroker),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group_id", cfg.KafkaGroupID),
	)
	if err := consumer.Listen(ctx); err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
	logger.Info("shutting down")
}
