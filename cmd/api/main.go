package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backend/internal/client"
	"shop-backend/internal/config"
	"shop-backend/internal/job"
	"shop-backend/internal/logger"
	"shop-backend/internal/repository"
	"shop-backend/internal/server"
	"shop-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	db, err := client.InitPostgresClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	if err := productRepo.Seed(context.Background()); err != nil {
		log.Warn("product seed failed", zap.Error(err))
	}

	notifier := service.NewLogNotifier(log.Named("notify"))
	cartService := service.NewCartService(db, cartRepo, productRepo)
	favoriteService := service.NewFavoriteService(db, favoriteRepo, productRepo)
	mergeService := service.NewMergeService(db, cartRepo, favoriteRepo, log.Named("merge"))
	orderService := service.NewOrderService(db, orderRepo, cartRepo, notifier, log.Named("order"))

	reaper := job.NewReaper(cartRepo, favoriteRepo, log.Named("reaper"), cfg.Reaper.Schedule)
	if err := reaper.Start(); err != nil {
		log.Fatal("reaper start failed", zap.Error(err))
	}

	srv := server.NewServer(cartService, favoriteService, orderService, mergeService, cfg.JWTSecret)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	reaper.Stop()
	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
