package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/cache"
	"github.com/jueunk617/subscription-keep-or-cut/internal/config"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/seeder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var dashboards seeder.Invalidator = cache.Nop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.DashboardCacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		dashboards = rc
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	n, err := seeder.FillMissingUsage(ctx, db, dashboards, time.Now(), rng)
	if err != nil {
		log.Fatalf("Failed to generate usage: %v", err)
	}

	log.Printf("Test data generation completed! Inserted %d usage records", n)
}
