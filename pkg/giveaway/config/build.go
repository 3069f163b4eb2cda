package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/auth"
	"github.com/tendant/simple-giveaway/pkg/giveaway/objectkey"
	"github.com/tendant/simple-giveaway/pkg/giveaway/presigned"
	repomemory "github.com/tendant/simple-giveaway/pkg/giveaway/repo/memory"
	repopg "github.com/tendant/simple-giveaway/pkg/giveaway/repo/postgres"
	memorystorage "github.com/tendant/simple-giveaway/pkg/giveaway/storage/memory"
	s3storage "github.com/tendant/simple-giveaway/pkg/giveaway/storage/s3"
	"github.com/tendant/simple-giveaway/pkg/giveaway/uploads"
	"github.com/tendant/simple-giveaway/pkg/giveaway/urlstrategy"
)

const r2HostSuffix = ".r2.cloudflarestorage.com"

// Components is everything the HTTP server needs, built from one ServerConfig
type Components struct {
	Signer      *presigned.Signer
	Uploads     *uploads.Service
	Listings    giveaway.ListingService
	Profiles    giveaway.ProfileService
	Repository  giveaway.Store
	ObjectStore giveaway.ObjectStore
	Auth        *auth.Authenticator

	// DevBucket serves presigned PUTs locally; nil unless R2_DEV_BUCKET is set
	DevBucket *presigned.Handlers

	closers []func()
}

// Close releases database pools and other resources
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build creates all server components from the configuration
func (c *ServerConfig) Build(ctx context.Context) (*Components, error) {
	comp := &Components{}

	signer, err := c.R2.BuildSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to build signer: %w", err)
	}
	comp.Signer = signer

	strategy := urlstrategy.NewCDNStrategy(c.R2.PublicBaseURL)
	comp.Uploads, err = uploads.New(
		uploads.WithPresigner(signer),
		uploads.WithKeyGenerator(objectkey.NewRandomGenerator()),
		uploads.WithURLStrategy(strategy),
		uploads.WithLimits(c.Limits()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload service: %w", err)
	}

	repo, closeRepo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	comp.Repository = repo
	comp.closers = append(comp.closers, closeRepo)

	store, err := c.BuildObjectStore(ctx)
	if err != nil {
		comp.Close()
		return nil, fmt.Errorf("failed to build object store: %w", err)
	}
	comp.ObjectStore = store

	if c.R2.DevBucket {
		blobs, ok := store.(presigned.BlobStore)
		if !ok {
			comp.Close()
			return nil, fmt.Errorf("object store %T cannot back the development bucket", store)
		}
		comp.DevBucket = presigned.NewHandlers(signer, blobs, c.Upload.MaxFileSize)
	}

	serviceOpts := []giveaway.Option{
		giveaway.WithStore(repo),
		giveaway.WithObjectStore(store),
		giveaway.WithUploadVerification(c.R2.VerifyUploads),
		giveaway.WithImageResolver(urlstrategy.NewImageResolver(strategy)),
		giveaway.WithMaxImages(c.Upload.MaxFiles),
	}
	comp.Listings, err = giveaway.New(serviceOpts...)
	if err != nil {
		comp.Close()
		return nil, fmt.Errorf("failed to build listing service: %w", err)
	}
	comp.Profiles, err = giveaway.NewProfileService(serviceOpts...)
	if err != nil {
		comp.Close()
		return nil, fmt.Errorf("failed to build profile service: %w", err)
	}

	comp.Auth, err = auth.New(c.TokenSecret)
	if err != nil {
		comp.Close()
		return nil, err
	}

	return comp, nil
}

// BuildSigner creates the presigner for the configured bucket
func (r R2Config) BuildSigner() (*presigned.Signer, error) {
	opts := []presigned.Option{
		presigned.WithAccountID(r.AccountID),
		presigned.WithCredentials(r.AccessKeyID, r.SecretAccessKey),
		presigned.WithBucket(r.BucketName),
	}
	if r.Endpoint != "" {
		opts = append(opts, presigned.WithEndpoint(r.Endpoint))
	}
	if r.Scheme != "" {
		opts = append(opts, presigned.WithScheme(r.Scheme))
	}
	if r.Region != "" {
		opts = append(opts, presigned.WithRegion(r.Region))
	}
	if r.PresignExpiry > 0 {
		opts = append(opts, presigned.WithDefaultExpiration(time.Duration(r.PresignExpiry)*time.Second))
	}
	return presigned.New(opts...)
}

// EndpointURL is the base URL of the S3 API for the configured account
func (r R2Config) EndpointURL() string {
	scheme := r.Scheme
	if scheme == "" {
		scheme = "https"
	}
	if r.Endpoint != "" {
		return scheme + "://" + r.Endpoint
	}
	return scheme + "://" + r.AccountID + r2HostSuffix
}

// S3Config returns the settings for the server-side S3 client
func (r R2Config) S3Config() s3storage.Config {
	return s3storage.Config{
		Endpoint:        r.EndpointURL(),
		Region:          r.Region,
		Bucket:          r.BucketName,
		AccessKeyID:     r.AccessKeyID,
		SecretAccessKey: r.SecretAccessKey,
		UsePathStyle:    true,
	}
}

// BuildRepository creates the listing and profile store. The returned func releases it.
func (c *ServerConfig) BuildRepository(ctx context.Context) (giveaway.Store, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), func() {}, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		repo := repopg.NewWithPool(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildObjectStore returns the store listing images live in: the one given to
// WithObjectStore, an in-memory store for the development bucket, or the S3 API.
func (c *ServerConfig) BuildObjectStore(ctx context.Context) (giveaway.ObjectStore, error) {
	if c.objectStore != nil {
		return c.objectStore, nil
	}
	if c.R2.DevBucket {
		slog.Info("Using in-memory development bucket", "bucket", c.R2.BucketName)
		return memorystorage.New(), nil
	}
	return s3storage.New(ctx, c.R2.S3Config())
}
