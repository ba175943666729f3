package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/ai"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/config"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/database"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/handler"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/service"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/session"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// Connect to database
	db, err := database.New(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	// Run migrations
	zlog.Info("running database migrations")
	if err := db.Migrate(); err != nil {
		zlog.Fatal("failed to run migrations", "error", err)
	}

	if cfg.SeedDemo {
		if err := db.Seed(); err != nil {
			zlog.Fatal("failed to seed database", "error", err)
		}
		zlog.Info("seeded demo users")
	}

	// Create store
	s := store.New(db.DB)

	// Auth sessions live in the DB by default; point REDIS_ADDR at a
	// shared instance for multi-server deployments.
	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisSessions, err := session.NewRedisStore(context.Background(), cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			zlog.Fatal("failed to connect session store", "error", err)
		}
		defer redisSessions.Close()
		sessions = redisSessions
		zlog.Info("auth sessions backed by redis", "addr", cfg.RedisAddr)
	} else {
		sessions = session.NewDBStore(s)
	}

	// AI collaborator
	collab := ai.New(cfg, zlog)

	// Services
	access := service.NewAccess(s)
	authSvc := service.NewAuthService(s, sessions, cfg.SessionTTL)
	projectSvc := service.NewProjectService(s, access)
	chatSvc := service.NewChatService(s, access, collab, cfg.AITimeout, zlog)
	generateSvc := service.NewGenerateService(s, access, collab, cfg.AITimeout, zlog)
	fileSvc := service.NewFileService(s, access)

	h := handler.New(s, authSvc, projectSvc, chatSvc, generateSvc, fileSvc, zlog)
	r := h.Routes(cfg.CORSOrigins, zlog)

	// Periodic sweep of expired auth sessions
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if err := authSvc.SweepExpiredSessions(sweepCtx); err != nil {
					zlog.Warn("failed to sweep expired sessions", "error", err)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket relay connections are long-lived
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zlog.Info("server starting", "port", cfg.Port, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", "error", err)
	}

	zlog.Info("server stopped")
}
