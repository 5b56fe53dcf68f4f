package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jackymlr/basketball/internal/config"
	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scheduler"
	"github.com/jackymlr/basketball/internal/scoreboard"
	"github.com/jackymlr/basketball/internal/scoring"
	"github.com/jackymlr/basketball/internal/store"
	"github.com/jackymlr/basketball/internal/web"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	if cfg.DevMode {
		logger.SetLevel(logrus.DebugLevel)
		log.Println("Dev mode enabled")
	}

	// Initialize store
	var snapshots store.Store
	if cfg.DevMode && cfg.DatabasePath == "" {
		log.Println("No database path set, keeping state in memory")
		snapshots = store.NewMemoryStore()
	} else {
		if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
		db, err := store.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		snapshots = db
	}
	defer snapshots.Close()

	// Load the league from the last snapshot
	registry := league.NewRegistry(snapshots)
	registry.Load(context.Background())

	// Scoring sessions and the live scoreboard
	manager := scoring.NewManager(registry, clockwork.NewRealClock(), cfg.QuarterMinutes, logger)
	board := scoreboard.New()

	server := web.NewServer(registry, manager, board, web.Config{
		DevMode: cfg.DevMode,
	})

	// Every new session feeds the SSE hub and the scoreboard
	manager.OnSessionOpen(server.WatchSession)
	manager.OnSessionOpen(func(ctx context.Context, sess *scoring.Session) {
		go board.Watch(ctx, sess.GameID(), sess.Subscribe())
	})

	// Periodic autosave of open sessions
	var autosave *scheduler.Scheduler
	if cfg.AutosaveInterval > 0 {
		autosave, err = scheduler.New(manager, cfg.AutosaveInterval, logger)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		autosave.Start()
	} else {
		log.Println("Autosave disabled")
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server,
	}

	// Handle shutdown signals
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Println("Shutting down...")

		if autosave != nil {
			if err := autosave.Stop(); err != nil {
				log.Printf("Scheduler shutdown error: %v", err)
			}
		}

		// Closing sessions saves every open game
		manager.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	fmt.Printf("Server running on %s\n", cfg.ListenAddr)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Server stopped")
}
