package main

import (
	"context"
	"flag"
	"log"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/service"
)

func main() {
	file := flag.String("file", "seeds/categories.yaml", "Seed file")
	withUsers := flag.Bool("users", false, "Also create the demo users")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Environment.IsProduction() && *withUsers {
		log.Fatal("Refusing to create demo users in production")
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
		log.Printf("Warning: %v; category cache will not be invalidated", err)
		redisClient = nil
	}

	f, err := loadSeedFile(*file)
	if err != nil {
		log.Fatal(err)
	}

	res, err := seed(ctx, f,
		service.NewCategoryService(db, redisClient),
		service.NewAuthService(db, redisClient, cfg.JWTSecret, cfg.TokenTTL),
		*withUsers,
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Seeding complete: %d categories, %d new users", res.Categories, res.Users)
}
