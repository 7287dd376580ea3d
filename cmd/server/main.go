package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"beatstitch/internal/config"
	"beatstitch/internal/email"
	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
	"beatstitch/internal/metrics"
	"beatstitch/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Render presets are optional; without a presets file the engine's
	// default output settings apply.
	presets, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load presets file: %v", err)
	}
	if presets != nil {
		log.Printf("Loaded %d render presets", len(presets.Presets))
	}

	// Engine client with the service token; per-request user tokens are
	// layered on by the handlers.
	client := engine.NewClient(cfg.EngineURL, cfg.EngineToken, cfg.EngineTimeout)

	// Render job tracking and metrics
	registry := jobs.NewRegistry()
	metrics.Init(registry)

	// Email notifications for finished renders, delivered by the watcher
	notifier := email.NewNotifier(cfg)
	if cfg.IsEmailEnabled() {
		log.Println("Email notifications enabled")
	}

	// Background watcher polls active render jobs and notifies on completion
	watcher := jobs.NewWatcher(registry, client, notifier, cfg.JobPollEvery)
	go watcher.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, client, registry, presets); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
