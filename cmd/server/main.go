package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smarquez/linguaflash/internal/api"
	"github.com/smarquez/linguaflash/internal/clock"
	"github.com/smarquez/linguaflash/internal/config"
	"github.com/smarquez/linguaflash/internal/db"
	"github.com/smarquez/linguaflash/internal/logger"
	"github.com/smarquez/linguaflash/internal/quizgen"
	"github.com/smarquez/linguaflash/internal/services"
	"github.com/smarquez/linguaflash/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LinguaFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("flashcard_queue_len=%d", cfg.FlashcardQueueLen)
	log.Debug("stats_window_days=%d", cfg.StatsWindowDays)
	log.Debug("janitor_worker_count=%d", cfg.JanitorWorkers)
	log.Debug("janitor_interval_minutes=%d", cfg.JanitorIntervalMn)
	log.Debug("session_idle_cutoff_hours=%d", cfg.SessionIdleCutoff)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	clk := clock.System()
	janitorPool := worker.NewPool(cfg.JanitorWorkers, cfg.JanitorQueueSize)

	// Initialize services
	generator := quizgen.New(quizgen.DefaultConfig())
	sessionService := services.NewSessionService(database, generator, clk)
	quizService := services.NewQuizService(database, clk)
	reportService := services.NewReportService(database, clk)
	flashcardService := services.NewFlashcardService(database, clk, cfg.FlashcardQueueLen)
	statsService := services.NewStatsService(database, clk, cfg.StatsWindowDays, cfg.StatsTopTags)

	srv := api.NewServer(database, sessionService, quizService, reportService, flashcardService, statsService)

	ctx, cancel := context.WithCancel(context.Background())
	janitorPool.Start(ctx)

	// Sweep stale sessions periodically in the background.
	janitor := services.NewJanitorJob(database, clk, time.Duration(cfg.SessionIdleCutoff)*time.Hour)
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.JanitorIntervalMn) * time.Minute)
		defer ticker.Stop()
		janitorPool.Enqueue(janitor)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				janitorPool.Enqueue(janitor)
			}
		}
	}()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping janitor pool")
	janitorPool.Stop()

	log.Info("===========================================")
	log.Info("LinguaFlash Server Stopped")
	log.Info("===========================================")
}
