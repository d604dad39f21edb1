package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skovalov/news-crawler/app/api"
	"github.com/skovalov/news-crawler/app/cfg"
	"github.com/skovalov/news-crawler/app/config"
	"github.com/skovalov/news-crawler/app/crawler"
	"github.com/skovalov/news-crawler/app/database"
	"github.com/skovalov/news-crawler/app/sites"
	"github.com/skovalov/news-crawler/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting news crawler", "version", appCfg.Version)

	// Database connection and schema
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	// Source seed configurations
	configCache := config.NewCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	// Repositories
	sourceRepo := database.NewSourceRepository(db)
	articleRepo := database.NewArticleRepository(db)

	// Register seeded sources in the database, keyed on URL
	for _, sourceConfig := range configCache.GetConfigs() {
		id, err := sourceRepo.UpsertSource(sourceConfig.DisplayName, sourceConfig.URL, sourceConfig.Parser)
		if err != nil {
			slog.Warn("Failed to register source", "source", sourceConfig.Name, "error", err)
			continue
		}
		if !sourceConfig.Settings.Enabled {
			if err := sourceRepo.SetSourceActive(id, false); err != nil {
				slog.Warn("Failed to deactivate source", "source", sourceConfig.Name, "error", err)
			}
		}
		slog.Info("Registered source", "source", sourceConfig.DisplayName, "parser", sourceConfig.Parser, "id", id)
	}

	// Parser registry and crawl manager
	registry := crawler.NewRegistry()
	sites.RegisterAll(registry)
	slog.Info("Parsers registered", "parsers", registry.Names())

	manager := crawler.NewManager(sourceRepo, articleRepo, registry, configCache, crawler.SessionOptions{
		UserAgent:    appCfg.UserAgent,
		RequestDelay: time.Duration(appCfg.RequestDelay * float64(time.Second)),
		Timeout:      time.Duration(appCfg.Timeout) * time.Second,
		MaxRetries:   appCfg.MaxRetries,
	})

	// Background scheduler
	scheduler := tasks.NewScheduler(manager, sourceRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	// HTTP server
	handler := api.NewHandler(sourceRepo, articleRepo, configCache, manager)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
