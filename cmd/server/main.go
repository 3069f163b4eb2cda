package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-giveaway/pkg/giveaway/api"
	"github.com/tendant/simple-giveaway/pkg/giveaway/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "err", err)
	}

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	slog.Info("Starting giveaway server",
		"environment", cfg.Environment,
		"database", cfg.DatabaseType,
		"bucket", cfg.R2.BucketName,
		"endpoint", cfg.R2.EndpointURL(),
		"presign_expiry", cfg.PresignExpiry(),
		"max_files", cfg.Upload.MaxFiles,
		"max_file_size", cfg.Upload.MaxFileSize,
		"verify_uploads", cfg.R2.VerifyUploads,
		"dev_bucket", cfg.R2.DevBucket,
	)

	ctx := context.Background()
	components, err := cfg.Build(ctx)
	if err != nil {
		slog.Error("Failed to build server components", "err", err)
		os.Exit(1)
	}
	defer components.Close()

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	server.R.Mount("/api", api.Routes(api.Options{
		Uploads:        components.Uploads,
		Listings:       components.Listings,
		Profiles:       components.Profiles,
		Verifier:       components.Auth.Verifier(),
		Logger:         slog.Default(),
		AllowedOrigins: cfg.AllowedOrigins,
	}))

	if components.DevBucket != nil {
		slog.Info("Serving development bucket", "path", "/"+cfg.R2.BucketName+"/")
		components.DevBucket.Mount(server.R)
	}

	server.Run()
}
