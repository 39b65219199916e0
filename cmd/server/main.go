package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infoshare/internal/config"
	"infoshare/internal/db"
	"infoshare/internal/handlers"
	"infoshare/internal/logger"
	"infoshare/internal/middleware"
	"infoshare/internal/router"
	"infoshare/internal/services"
	"infoshare/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gin.SetMode(cfg.App.Mode)

	gdb, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", logger.ErrorField(err))
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("Failed to migrate database", logger.ErrorField(err))
	}
	if err := db.SeedCategories(gdb); err != nil {
		logger.Fatal("Failed to seed categories", logger.ErrorField(err))
	}

	cache, err := utils.NewCache(cfg.Cache.Size)
	if err != nil {
		logger.Fatal("Failed to create cache", logger.ErrorField(err))
	}
	svc := services.New(gdb, cache, cfg.Cache.TTL)

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10000)
	if err != nil {
		logger.Fatal("Failed to create rate limiter", logger.ErrorField(err))
	}

	r := router.New(svc, gdb, router.Options{
		SessionSecret: cfg.App.SessionSecret,
		Limiter:       limiter,
	})

	if dirExists(cfg.App.TemplatesDir) {
		r.HTMLRender = loadTemplates(cfg.App.TemplatesDir)
		handlers.EnableHTML(true)
	} else {
		logger.Warn("Templates not found, serving JSON", logger.String("dir", cfg.App.TemplatesDir))
	}
	if dirExists(cfg.App.StaticDir) {
		r.Static("/static", cfg.App.StaticDir)
	}

	srv := &http.Server{
		Addr:              cfg.App.GetServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Infoshare server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exited")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
