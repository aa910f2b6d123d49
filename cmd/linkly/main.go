package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nirajkr26/linkly/config"
	"github.com/nirajkr26/linkly/internal/handler"
	"github.com/nirajkr26/linkly/internal/maintenance"
	"github.com/nirajkr26/linkly/internal/repository"
	"github.com/nirajkr26/linkly/internal/router"
	"github.com/nirajkr26/linkly/internal/service"
	"github.com/nirajkr26/linkly/internal/storage"
	"github.com/nirajkr26/linkly/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := storage.ConnectDB(&cfg.DB, log)
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	storage.Migrate(db, log)

	linkRepo := repository.NewLinkRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	userRepo := repository.NewUserRepository(db)

	clickService := service.NewClickService(visitRepo, linkRepo, log)
	linkService := service.NewLinkService(linkRepo, visitRepo, clickService, cfg.BaseURL, cfg.AliasLength, log)
	userService := service.NewUserService(userRepo, log)

	linkHandler := handler.NewLinkHandler(linkService, clickService, cfg)
	userHandler := handler.NewUserHandler(userService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := maintenance.NewScheduler(log, linkRepo, visitRepo)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}

	r := router.Router(cfg, linkHandler, userHandler)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	storage.CloseDB(db, log)
	log.Info("Server exiting")
}
