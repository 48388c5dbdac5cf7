package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"propertyhub/internal/auth"
	"propertyhub/internal/config"
	"propertyhub/internal/logger"
	"propertyhub/internal/repository"
	"propertyhub/internal/service"
)

// Creates the bootstrap administrator from ADMIN_* variables. Safe to rerun: an existing
// account with the same email is left untouched.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close(context.Background())

	authService := service.NewAuthService(
		store.Users,
		auth.NewJWTService(cfg.JWTSecret),
		auth.NewTokenStore(nil),
		auth.NewBcryptHasher(),
	)

	user, created, err := authService.EnsureAdmin(ctx, service.RegisterInput{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Phone:    cfg.Admin.Phone,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}
	if !created {
		log.Info("account already exists, nothing to do", zap.String("email", user.Email), zap.String("role", string(user.Role)))
		return
	}
	log.Info("admin created", zap.String("id", user.ID.String()), zap.String("email", user.Email))
}
