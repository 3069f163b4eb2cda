package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/config"
	"github.com/tendant/simple-giveaway/pkg/giveaway/objectkey"
	s3storage "github.com/tendant/simple-giveaway/pkg/giveaway/storage/s3"
	"github.com/tendant/simple-giveaway/pkg/giveaway/urlstrategy"
)

const seedPrefix = "seed"

var demoListings = []giveaway.CreateListingRequest{
	{
		Title:         "Oak bookshelf",
		Category:      "furniture",
		Condition:     "gently-used",
		Description:   "Five shelves, solid oak, a few scratches on the left side panel.",
		PickupAddress: "12 Main Street, Springfield",
	},
	{
		Title:              "Kids bike with training wheels",
		Category:           "sports",
		Condition:          "used",
		Description:        "16 inch frame, new tyres last spring, bell still works.",
		PickupAddress:      "4 Harbour View, Springfield",
		PickupInstructions: "Leave a message before coming by.",
	},
	{
		Title:         "Box of paperback novels",
		Category:      "books",
		Condition:     "well-worn",
		Description:   "Around thirty paperbacks, mostly crime and science fiction.",
		PickupAddress: "88 Chestnut Avenue, Springfield",
	},
	{
		Title:         "Stand mixer",
		Category:      "kitchen",
		Condition:     "like-new",
		Description:   "Used twice, comes with dough hook, whisk and paddle.",
		PickupAddress: "31 Orchard Lane, Springfield",
	},
	{
		Title:         "Cordless drill",
		Category:      "tools",
		Condition:     "used",
		Description:   "18V drill with two batteries and a charger, bits not included.",
		PickupAddress: "7 Mill Road, Springfield",
	},
	{
		Title:              "Wooden train set",
		Category:           "toys",
		Condition:          "gently-used",
		Description:        "Track pieces, a bridge and four carriages in a storage tub.",
		PickupAddress:      "19 Station Street, Springfield",
		PickupInstructions: "Porch pickup any evening.",
	},
}

// imageUploader stores seed images server-side; *s3storage.Backend implements it
type imageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
}

type seedOptions struct {
	owner        string
	count        int
	imagesDir    string
	createBucket bool
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo listings",
		Long: `Insert demo listings into DATABASE_URL. With --images, every image in the
directory is uploaded to the bucket first and the listings reference them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", opts.count)
			}

			cfg, err := config.Load(config.WithEnv())
			if err != nil {
				return err
			}
			if cfg.DatabaseType == "memory" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: DATABASE_URL is memory, seeded listings will not persist")
			}

			repo, closeRepo, err := cfg.BuildRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc, err := giveaway.New(
				giveaway.WithStore(repo),
				giveaway.WithImageResolver(urlstrategy.NewImageResolver(urlstrategy.NewCDNStrategy(cfg.R2.PublicBaseURL))),
				giveaway.WithMaxImages(cfg.Upload.MaxFiles),
			)
			if err != nil {
				return err
			}

			var keys []string
			if opts.imagesDir != "" {
				backend, err := s3storage.New(ctx, cfg.R2.S3Config())
				if err != nil {
					return err
				}
				if opts.createBucket {
					if err := backend.EnsureBucket(ctx); err != nil {
						return err
					}
				}
				keys, err = uploadSeedImages(ctx, backend, objectkey.NewRandomGenerator(), opts.imagesDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d images\n", len(keys))
			}

			ids, err := seedListings(ctx, svc, opts.owner, opts.count, keys)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d listings: %v\n", len(ids), ids)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "demo@example.com", "identity that owns the listings")
	cmd.Flags().IntVar(&opts.count, "count", len(demoListings), "number of listings to create")
	cmd.Flags().StringVar(&opts.imagesDir, "images", "", "directory of .jpg/.png/.webp images to upload")
	cmd.Flags().BoolVar(&opts.createBucket, "create-bucket", false, "create the bucket if it does not exist")

	return cmd
}

// seedListings creates count demo listings. Images are assigned round-robin
// from keys; without keys every listing uses the default image.
func seedListings(ctx context.Context, svc giveaway.ListingService, owner string, count int, keys []string) ([]int64, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		req := demoListings[i%len(demoListings)]
		if len(keys) > 0 {
			req.Images = []string{keys[i%len(keys)]}
		} else {
			req.Images = []string{giveaway.DefaultImage}
		}

		listing, err := svc.CreateListing(ctx, owner, req)
		if err != nil {
			return ids, fmt.Errorf("failed to create listing %q: %w", req.Title, err)
		}
		ids = append(ids, listing.ID)
	}
	return ids, nil
}

// uploadSeedImages uploads every supported image in dir under the seed prefix
// and returns their keys in file name order.
func uploadSeedImages(ctx context.Context, uploader imageUploader, keys objectkey.Generator, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := objectkey.Extension(detectMimeType(e.Name())); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	uploaded := make([]string, 0, len(names))
	for _, name := range names {
		contentType := detectMimeType(name)
		key, err := keys.GenerateKey(seedPrefix, contentType)
		if err != nil {
			return nil, err
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		err = uploader.Upload(ctx, key, contentType, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", name, err)
		}
		uploaded = append(uploaded, key)
	}
	return uploaded, nil
}
