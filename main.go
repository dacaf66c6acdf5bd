package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/ngenohkevin/rescuedeck-agent/config"
	"github.com/ngenohkevin/rescuedeck-agent/internal/logging"
	"github.com/ngenohkevin/rescuedeck-agent/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.RelocateOnServer {
		logger.Info("Server-side relocation disabled, recover requests only report file paths")
	}

	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
