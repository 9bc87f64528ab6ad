package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/bootstrap"
	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/handlers"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.LogFormat, cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.DotEnvLoaded {
		log.Debug("no .env file found, using process environment")
	}
	log.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("similarity", cfg.Gemini.EnableSimilarity),
		zap.Bool("guidelines", cfg.Qdrant.Enabled()),
		zap.Int("concurrency", cfg.Worker.Concurrency),
	)

	m := metrics.New("cv-screener")

	ctx := context.Background()
	screener, err := bootstrap.NewScreener(ctx, cfg, log, m)
	if err != nil {
		log.Fatal("failed to initialize screening pipeline", zap.Error(err))
	}
	log.Info("screening pipeline initialized")

	screenHandler := handlers.NewScreenHandler(screener, cfg.Storage.MaxFileSize, log)

	app := fiber.New(fiber.Config{
		AppName:      "AI CV Screener API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxBatchSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(handlers.AccessLog(log, m))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.Register(app, screenHandler, m)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
