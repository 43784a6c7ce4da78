// Package main runs the interactive OpenGL demo scenes.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/config"
	"github.com/Faultbox/learngl/internal/demo"
	"github.com/Faultbox/learngl/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== LearnGL ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	r, err := demo.New(cfg, logger.Log)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	runErr := r.Run()
	if err := r.Close(); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("demo error", zap.Error(runErr))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("demo closed normally")
}
