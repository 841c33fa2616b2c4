package main

import (
	"context"
	"log"

	"github.com/jueunk617/subscription-keep-or-cut/internal/cache"
	"github.com/jueunk617/subscription-keep-or-cut/internal/catalog"
	"github.com/jueunk617/subscription-keep-or-cut/internal/config"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/handler"
	"github.com/jueunk617/subscription-keep-or-cut/internal/middleware"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := model.VerifyLabels(); err != nil {
		log.Fatalf("Label table incomplete: %v", err)
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
	categories, err := db.ListCategories(ctx)
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}
	if err := catalog.Verify(categories); err != nil {
		log.Fatalf("Stored categories do not match the catalog: %v", err)
	}

	var dashboards cache.DashboardCache = cache.Nop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.DashboardCacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		dashboards = rc
		log.Printf("Dashboard cache enabled (ttl %s)", cfg.DashboardCacheTTL)
	}

	svc := service.New(db, dashboards)

	var login *handler.CognitoLogin
	auth := middleware.DefaultUser(cfg.DefaultUserID)
	if cfg.Cognito.Enabled() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Cognito.Region))
		if err != nil {
			log.Fatalf("unable to load SDK config: %v", err)
		}
		login = &handler.CognitoLogin{
			Client:       cognitoidentityprovider.NewFromConfig(awsCfg),
			ClientID:     cfg.Cognito.AppClientID,
			ClientSecret: cfg.Cognito.AppClientSecret,
		}
		auth = middleware.NewCognitoAuth(middleware.CognitoConfig{
			UserPoolID: cfg.Cognito.UserPoolID,
			Region:     cfg.Cognito.Region,
			ClientID:   cfg.Cognito.AppClientID,
			JWKSURL:    cfg.Cognito.JWKSURL,
		}).Middleware()
		log.Printf("Cognito authentication enabled for pool %s", cfg.Cognito.UserPoolID)
	} else {
		log.Printf("Cognito not configured, all requests act as %s", cfg.DefaultUserID)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())

	handler.New(svc, login).Register(e, auth)

	log.Fatal(e.Start(":" + cfg.Port))
}
