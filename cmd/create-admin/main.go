package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/art-studio-api/internal/repository"
	"github.com/noah-isme/art-studio-api/internal/service"
	"github.com/noah-isme/art-studio-api/pkg/config"
	"github.com/noah-isme/art-studio-api/pkg/database"
	"github.com/noah-isme/art-studio-api/pkg/logger"
)

// create-admin seeds the first ADMIN account. Running it again with the same
// email leaves the existing account untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	email := flag.String("email", cfg.Admin.Email, "admin email")
	password := flag.String("password", cfg.Admin.Password, "admin password")
	name := flag.String("name", cfg.Admin.Name, "admin display name")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	authSvc := service.NewAuthService(repository.NewUserRepository(db), nil, logr, service.AuthConfig{})
	user, created, err := authSvc.EnsureAdmin(ctx, *email, *password, *name)
	if err != nil {
		logr.Fatal("failed to create admin", zap.Error(err))
	}

	if created {
		logr.Info("admin user created", zap.String("email", user.Email), zap.String("user_id", user.ID))
		return
	}
	logr.Info("admin user already exists", zap.String("email", user.Email), zap.String("role", string(user.Role)))
}
