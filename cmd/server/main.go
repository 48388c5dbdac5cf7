package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"propertyhub/docs" // swagger docs
	"propertyhub/internal/auth"
	"propertyhub/internal/cache"
	"propertyhub/internal/config"
	"propertyhub/internal/events"
	"propertyhub/internal/handler"
	"propertyhub/internal/logger"
	"propertyhub/internal/middleware"
	"propertyhub/internal/repository"
	"propertyhub/internal/router"
	"propertyhub/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title PropertyHub API
// @version 1.0
// @description Real-estate listing marketplace: listings, buyer-to-owner contacts and moderation.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()
	log.Info("store ready", zap.String("driver", store.Driver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		// Tokens cannot be revoked until redis is back.
		log.Warn("redis unavailable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		log.Info("publishing events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(store.Users, jwtService, tokenStore, auth.NewBcryptHasher())
	userService := service.NewUserService(store.Users, store.Properties)
	propertyService := service.NewPropertyService(store.Properties, publisher, log)
	contactService := service.NewContactService(store.Contacts, store.Properties, store.Users, publisher, log)
	moderationService := service.NewModerationService(store.Users, store.Properties, publisher, log)

	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimitPerMinute, log)
	defer limiter.Stop()

	e := echo.New()
	router.Register(e, log, jwtService, authService, limiter, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userService),
		Property: handler.NewPropertyHandler(propertyService, userService, moderationService),
		Contact:  handler.NewContactHandler(contactService),
		User:     handler.NewUserHandler(userService, moderationService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}
