package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/api"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/router"
	"github.com/pageza/recipeshare/backend/internal/server"
	"github.com/pageza/recipeshare/backend/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Starting in %s mode", cfg.Environment)
	switch {
	case cfg.Environment.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.Environment.IsTest():
		gin.SetMode(gin.TestMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		// Redis backs caching, token revocation and shared rate limits, all of
		// which degrade gracefully.
		log.Printf("Warning: %v; continuing without Redis", err)
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	images := service.NewImageService(s3Config)
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret, cfg.TokenTTL)

	checks := map[string]api.HealthChecker{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = redisPing(redisClient)
	}

	engine := router.SetupRouter(router.Services{
		Auth:                  authService,
		Profile:               service.NewProfileService(db, images),
		Recipe:                service.NewRecipeService(db, images),
		Engagement:            service.NewEngagementService(db),
		Comment:               service.NewCommentService(db),
		Category:              service.NewCategoryService(db, redisClient),
		RecipeCreationLimiter: middleware.NewRecipeCreationRateLimiter(redisClient),
		CommentLimiter:        middleware.NewCommentRateLimiter(redisClient),
		HealthChecks:          checks,
	}, cfg.AllowedOrigins)

	srv := server.New(cfg, engine)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Println("Server stopped")
}

func redisPing(client *redis.Client) api.HealthChecker {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
