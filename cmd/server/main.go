package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshuasparkes/transcription-to-stories/internal/api"
	"github.com/joshuasparkes/transcription-to-stories/internal/config"
	"github.com/joshuasparkes/transcription-to-stories/internal/extract"
	"github.com/joshuasparkes/transcription-to-stories/internal/library"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	claude := extract.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)

	lib, err := library.Open(cfg.LibraryDir, log)
	if err != nil {
		log.Error("failed to open transcript library", "dir", cfg.LibraryDir, "error", err)
		os.Exit(1)
	}

	// Initialize HTTP server.
	srv := api.NewServer(claude, lib, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		lib.Close()
		claude.Close()
	}()

	log.Info("starting transcription-to-stories", "port", cfg.Port, "library_dir", cfg.LibraryDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
