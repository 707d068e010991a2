package main

import (
	"errors"
	"fmt"
	"log"
	"syscall"

	"github.com/akinalp/sentquote/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initLogger, APP_ENV'e göre production (JSON) veya development (konsol)
// logger kurar ve global logger olarak yükler. Dönen fonksiyon çıkışta
// buffer'ı flush eder.
func initLogger(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
			log.Printf("failed to sync logger: %v", err)
		}
	}
	return logger, cleanup, nil
}

// isIgnorableSyncError, stdout/stderr terminal olduğunda Sync'in döndüğü
// zararsız hataları ayıklar.
func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
