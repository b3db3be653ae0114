package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/config"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/api"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/pkg/xlog"
)

func main() {
	//load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := xlog.New(xlog.Options{
		App:   "alumni-svc",
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	defer logger.Sync()

	if err := api.StartServer(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
