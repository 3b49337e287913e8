package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"alcyxob/portfolio-api/internal/api"
	"alcyxob/portfolio-api/internal/config"
	"alcyxob/portfolio-api/internal/repository/mongo"
	"alcyxob/portfolio-api/internal/service"
	"alcyxob/portfolio-api/internal/storage"
	"alcyxob/portfolio-api/internal/upload"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting portfolio API server",
		slog.String("address", cfg.Server.Address),
		slog.String("media_provider", cfg.Media.Provider))

	// --- Database Connection ---
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	dbClient, err := mongo.ConnectDB(connectCtx, cfg.Database.URI)
	cancelConnect()
	if err != nil {
		logger.Error("could not connect to MongoDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", slog.Any("error", err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", slog.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			logger.Warn("index creation incomplete", slog.Any("error", err))
			return
		}
		logger.Info("index creation completed")
	}()

	// --- Initialize Storage ---
	storeCtx, cancelStore := context.WithTimeout(context.Background(), 15*time.Second)
	mediaStore, err := storage.NewMediaStore(storeCtx, cfg)
	cancelStore()
	if err != nil {
		logger.Error("failed to initialize media store", slog.Any("error", err))
		os.Exit(1)
	}
	pipeline := upload.NewPipeline(mediaStore, upload.Policy{
		RootFolder: cfg.Media.RootFolder,
		MaxBytes:   cfg.Media.MaxFileSize,
	}, logger)

	// --- Initialize Repositories and Services ---
	contentRepo := mongo.NewMongoContentRepository(appDB)
	projectRepo := mongo.NewMongoProjectRepository(appDB)

	contentService := service.NewContentService(contentRepo, pipeline, logger)
	projectService := service.NewProjectService(projectRepo, pipeline, logger)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Dependencies{
		Gate:           service.NewAdminGate(cfg.Admin.Password),
		ContentService: contentService,
		ProjectService: projectService,
		Health: api.NewHealthHandler(func(ctx context.Context) error {
			return mongo.PingDB(ctx, dbClient)
		}, mediaStore),
		Logger:       logger,
		PublicDir:    cfg.Server.PublicDir,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxFileBytes: cfg.Media.MaxFileSize,
	})

	// --- Start HTTP Server ---
	// Uploads of up to 50 MB need generous read and write timeouts.
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("server exiting")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
