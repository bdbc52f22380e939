package api

import (
	"context"
	"errors"
	"time"

	"kidsevents/internal/app/ai"
	"kidsevents/internal/app/config"
	"kidsevents/internal/app/dsn"
	"kidsevents/internal/app/handler"
	"kidsevents/internal/app/jobs"
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/redis"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/storage"
	"kidsevents/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const connectTimeout = 10 * time.Second

// StartServer собирает зависимости и запускает HTTP сервер
func StartServer() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	cfg.ApplyLogging()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		return errors.New("DSN string is empty, check DB_HOST and DB_NAME")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		return err
	}
	logrus.Info("database connected")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	// Redis нужен для чёрного списка токенов; без него logout недоступен
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		logrus.Info("redis connected")
	} else {
		logrus.Warn("REDIS_HOST is not set, token blacklist disabled")
	}

	// MinIO нужен только для изображений
	var images handler.ImageStore
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey,
			cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			return err
		}
		images = minioClient
	} else {
		logrus.Warn("MINIO_ENDPOINT is not set, image upload disabled")
	}

	aiClient := ai.New(ai.DefaultTimeout)

	metrics := middleware.NewMetrics()
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	trackingLimiter := middleware.NewRateLimiter(cfg.TrackingRateLimitRPS, cfg.TrackingRateLimitBurst)

	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins), metrics.Handler())

	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)
	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, images, aiClient, authHandler, cfg)
	apiHandler.RegisterAPIRoutes(router, authMiddleware, loginLimiter, trackingLimiter, metrics)

	scheduler := jobs.NewScheduler(repo, middleware.Limiters{loginLimiter, trackingLimiter}, cfg.MaintenanceSpec, cfg.DraftTTL)

	application := pkg.NewApp(cfg, router, scheduler)
	if redisClient != nil {
		application.OnShutdown(redisClient.Close)
	}
	application.OnShutdown(func() error {
		sqlDB, err := repo.DB().DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	return application.RunApp()
}
