package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/cache"
	"github.com/jueunk617/subscription-keep-or-cut/internal/catalog"
	"github.com/jueunk617/subscription-keep-or-cut/internal/config"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/seeder"
	"github.com/jueunk617/subscription-keep-or-cut/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.SeedCategories(ctx, catalog.All()); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	var dashboards cache.DashboardCache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.DashboardCacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		dashboards = rc
	}

	svc := service.New(db, dashboards)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := seeder.SeedDevelopmentData(ctx, svc, catalog.All(), cfg.DefaultUserID, time.Now(), rng); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Database seeding completed successfully.")
}
