package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/laundry-backend/internal/auth"
	"github.com/angelmondragon/laundry-backend/pkg/config"
	"github.com/angelmondragon/laundry-backend/pkg/db"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bootstrap-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "super-admin email")
	password := flag.String("password", os.Getenv("LAUNDRY_BOOTSTRAP_PASSWORD"), "super-admin password (defaults to LAUNDRY_BOOTSTRAP_PASSWORD)")
	name := flag.String("name", "Super Admin", "super-admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: bootstrap-admin -email <email> -password <password> [-name <name>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bootstrap-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	user, err := auth.BootstrapSuperAdmin(ctx, dbClient, cfg.Password, auth.BootstrapRequest{
		Email:    *email,
		Password: *password,
		FullName: *name,
	})
	if err != nil {
		logg.Error(ctx, "failed to create super-admin", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "user_id", user.ID.String()), "super-admin created")
	fmt.Println("created super-admin:", user.Email)
}
