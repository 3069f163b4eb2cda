package memory

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

func seed(t *testing.T, repo *Repository, listings ...giveaway.Listing) {
	t.Helper()
	for i := range listings {
		require.NoError(t, repo.CreateListing(context.Background(), &listings[i]))
	}
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := New()

	listing := &giveaway.Listing{Title: "Desk lamp", Images: []string{"a.jpg"}, CreatedBy: "ada@example.com"}
	require.NoError(t, repo.CreateListing(ctx, listing))
	assert.Equal(t, int64(1), listing.ID)

	got, err := repo.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", got.Title)

	// Returned values are copies
	got.Images[0] = "mutated.jpg"
	again, err := repo.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, again.Images)

	again.Title = "Floor lamp"
	require.NoError(t, repo.UpdateListing(ctx, again))
	updated, err := repo.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Floor lamp", updated.Title)

	require.NoError(t, repo.DeleteListing(ctx, listing.ID))
	_, err = repo.GetListing(ctx, listing.ID)
	assert.ErrorIs(t, err, giveaway.ErrListingNotFound)
	assert.ErrorIs(t, repo.DeleteListing(ctx, listing.ID), giveaway.ErrListingNotFound)
	assert.ErrorIs(t, repo.UpdateListing(ctx, &giveaway.Listing{ID: 99}), giveaway.ErrListingNotFound)
}

func TestRepository_ListListings(t *testing.T) {
	ctx := context.Background()
	repo := New()
	seed(t, repo,
		giveaway.Listing{Title: "Bookshelf", Category: "furniture", Description: "Oak shelves", CreatedBy: "ada"},
		giveaway.Listing{Title: "Kettle", Category: "kitchen", Description: "Electric kettle", CreatedBy: "ada"},
		giveaway.Listing{Title: "Armchair", Category: "furniture", Description: "Comfy and green", CreatedBy: "grace"},
		giveaway.Listing{Title: "Toaster", Category: "kitchen", Description: "Two slots, OAK trim", CreatedBy: "grace"},
	)

	tests := []struct {
		name  string
		query giveaway.ListingQuery
		ids   []int64
		total int
	}{
		{"default is id desc", giveaway.ListingQuery{}, []int64{4, 3, 2, 1}, 4},
		{"category", giveaway.ListingQuery{Category: "furniture"}, []int64{3, 1}, 2},
		{"created by", giveaway.ListingQuery{CreatedBy: "grace"}, []int64{4, 3}, 2},
		{"search is case-insensitive over title and description", giveaway.ListingQuery{Search: " oak "}, []int64{4, 1}, 2},
		{"exclude ids", giveaway.ListingQuery{ExcludeIDs: []int64{1, 4}}, []int64{3, 2}, 2},
		{"title asc", giveaway.ListingQuery{SortBy: giveaway.SortByTitle, SortOrder: giveaway.SortAsc}, []int64{3, 1, 2, 4}, 4},
		{"paged", giveaway.ListingQuery{Page: 2, PageSize: 3}, []int64{1}, 4},
		{"past the end", giveaway.ListingQuery{Page: 5, PageSize: 3}, []int64{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, total, err := repo.ListListings(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)

			ids := []int64{}
			for _, l := range listings {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := New()

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			_ = repo.CreateListing(ctx, &giveaway.Listing{Title: fmt.Sprintf("item %d", i)})
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	_, total, err := repo.ListListings(ctx, giveaway.ListingQuery{PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}

func TestRepository_ListListingsHugePage(t *testing.T) {
	repo := New()
	seed(t, repo,
		giveaway.Listing{Title: "A", CreatedBy: "ada"},
		giveaway.Listing{Title: "B", CreatedBy: "ada"},
	)

	tests := []struct {
		name  string
		query giveaway.ListingQuery
		want  int
	}{
		{"max page size", giveaway.ListingQuery{Page: 2, PageSize: math.MaxInt}, 0},
		{"max page", giveaway.ListingQuery{Page: math.MaxInt, PageSize: 10}, 0},
		{"capped size first page", giveaway.ListingQuery{Page: 1, PageSize: math.MaxInt}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, total, err := repo.ListListings(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, 2, total)
			assert.Len(t, listings, tt.want)
		})
	}
}

func TestRepository_Profiles(t *testing.T) {
	ctx := context.Background()
	repo := New()

	profile := &giveaway.Profile{Identity: "ada@example.com", Username: "ada"}
	require.NoError(t, repo.CreateProfile(ctx, profile))
	assert.Equal(t, int64(1), profile.ID)
	assert.ErrorIs(t, repo.CreateProfile(ctx, &giveaway.Profile{Identity: "ada@example.com"}), giveaway.ErrProfileExists)

	got, err := repo.GetProfileByIdentity(ctx, "ada@example.com")
	require.NoError(t, err)
	got.Bio = "Gives away books"
	got.Identity = "mallory@example.com"
	require.NoError(t, repo.UpdateProfile(ctx, got))

	updated, err := repo.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gives away books", updated.Bio)
	assert.Equal(t, "ada@example.com", updated.Identity, "identity is fixed at creation")

	_, err = repo.GetProfile(ctx, 42)
	assert.ErrorIs(t, err, giveaway.ErrProfileNotFound)
	_, err = repo.GetProfileByIdentity(ctx, "mallory@example.com")
	assert.ErrorIs(t, err, giveaway.ErrProfileNotFound)
	assert.ErrorIs(t, repo.UpdateProfile(ctx, &giveaway.Profile{ID: 42}), giveaway.ErrProfileNotFound)
}
