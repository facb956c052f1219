package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/handler"
	"github.com/adntgv/iftar-tg-miniapp/internal/middleware"
	"github.com/adntgv/iftar-tg-miniapp/internal/prayer"
	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/pkg/config"
	"github.com/adntgv/iftar-tg-miniapp/pkg/database"
	"github.com/adntgv/iftar-tg-miniapp/pkg/logger"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting iftar API...", zap.String("environment", cfg.Server.Env))

	if err := database.InitDB(cfg, log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	st := store.New(database.GetDB())
	prayerSvc := prayer.NewService(cfg.Prayer, log)
	h := handler.New(st, prayerSvc)

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/metrics", prometheus.HandlerFunc())
	h.Register(e)

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
