// Package xlog builds the zap loggers shared by alumni-svc and mail-svc.
package xlog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// App is attached to every entry as the "app" field.
	App string
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// File, when set, tees output into a rotating log file.
	File string
	// Console receives the primary stream. Defaults to stdout.
	Console zapcore.WriteSyncer
}

func New(opts Options) *zap.Logger {
	if opts.App == "" {
		opts.App = "x"
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "file",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	console := opts.Console
	if console == nil {
		console = zapcore.AddSync(os.Stdout)
	}
	writes := []zapcore.WriteSyncer{console}
	if opts.File != "" {
		writes = append(writes, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    128, // MB
			MaxAge:     30,  // days
			MaxBackups: 30,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writes...),
		zap.NewAtomicLevelAt(ParseLevel(opts.Level)),
	)

	return zap.New(core, zap.AddCaller(), zap.Fields(zap.String("app", opts.App)))
}

// ParseLevel maps LOG_LEVEL style strings to a zap level, falling back to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "dbg", "debug":
		return zap.DebugLevel
	case "w", "wrn", "warn", "warning":
		return zap.WarnLevel
	case "e", "err", "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
