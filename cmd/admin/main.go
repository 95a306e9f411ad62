package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/timbermill-backend/internal/admins"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/db"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/migrate"
)

// passwordEnv keeps the password out of shell history when -password is omitted.
const passwordEnv = "TIMBERMILL_ADMIN_PASSWORD"

func main() {
	logg := logger.New(logger.Options{ServiceName: "admin"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "create", "admin command: create|set-password")
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "new password; falls back to "+passwordEnv+", then a generated temporary password")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "missing -username")
		os.Exit(2)
	}
	pw := *password
	if pw == "" {
		pw = os.Getenv(passwordEnv)
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	requireResource(logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	svc, err := admins.NewService(admins.ServiceParams{
		Repo:           admins.NewRepository(dbClient.DB()),
		PasswordConfig: cfg.Password,
	})
	requireResource(logg, "admin service", err)

	var result *admins.Provisioned
	switch *cmd {
	case "create":
		result, err = svc.Create(ctx, *username, pw)
	case "set-password":
		result, err = svc.SetPassword(ctx, *username, pw)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(2)
	}
	if err != nil {
		logg.Error(ctx, "admin command failed", err)
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", *cmd, err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "admin_id", result.ID.String()), "admin command completed")
	fmt.Printf("admin %q (%s) ok\n", result.Username, result.ID)
	if result.TempPassword != "" {
		fmt.Printf("temporary password: %s\n", result.TempPassword)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
