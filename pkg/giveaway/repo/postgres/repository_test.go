package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

func TestBuildWhereClause(t *testing.T) {
	where, args := buildWhereClause(giveaway.ListingQuery{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildWhereClause(giveaway.ListingQuery{
		Search:     " 50%_off ",
		Category:   "kitchen",
		CreatedBy:  "ada@example.com",
		ExcludeIDs: []int64{3, 4},
	})
	assert.Equal(t,
		" WHERE (title ILIKE $1 OR description ILIKE $1) AND category = $2 AND created_by = $3 AND NOT (id = ANY($4))",
		where)
	assert.Equal(t, []interface{}{`%50\%\_off%`, "kitchen", "ada@example.com", []int64{3, 4}}, args)
}

func TestOrderByClause(t *testing.T) {
	assert.Equal(t, " ORDER BY id DESC", orderByClause(giveaway.ListingQuery{}.Normalize()))
	assert.Equal(t, " ORDER BY id ASC", orderByClause(giveaway.ListingQuery{SortOrder: giveaway.SortAsc}))
	assert.Equal(t, " ORDER BY title ASC, id ASC",
		orderByClause(giveaway.ListingQuery{SortBy: giveaway.SortByTitle, SortOrder: giveaway.SortAsc}))
}

// newTestRepository connects to GIVEAWAY_TEST_DATABASE_URL and recreates the schema
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("GIVEAWAY_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GIVEAWAY_TEST_DATABASE_URL not set; skipping Postgres tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS listing, profile`)
	require.NoError(t, err)

	repo := NewWithPool(pool)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Migrate(ctx), "migrate is idempotent")
	return repo
}

func TestRepository_CRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	listing := &giveaway.Listing{
		Title:         "Desk lamp",
		Category:      "home",
		Condition:     "used",
		Description:   "Works fine, the shade is a bit dusty.",
		Images:        []string{"listings/a.jpg", "listings/b.png"},
		PickupAddress: "12 Example Street",
		CreatedBy:     "ada@example.com",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.CreateListing(ctx, listing))
	require.NotZero(t, listing.ID)

	got, err := repo.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.Images, got.Images)
	assert.Equal(t, "", got.PickupInstructions)
	assert.True(t, now.Equal(got.CreatedAt))

	got.Title = "Floor lamp"
	got.Images = nil
	got.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.UpdateListing(ctx, got))

	updated, err := repo.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Floor lamp", updated.Title)
	assert.Empty(t, updated.Images)

	require.NoError(t, repo.DeleteListing(ctx, listing.ID))
	_, err = repo.GetListing(ctx, listing.ID)
	assert.ErrorIs(t, err, giveaway.ErrListingNotFound)
	assert.ErrorIs(t, repo.DeleteListing(ctx, listing.ID), giveaway.ErrListingNotFound)
	assert.ErrorIs(t, repo.UpdateListing(ctx, updated), giveaway.ErrListingNotFound)
}

func TestRepository_ListListings(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, l := range []giveaway.Listing{
		{Title: "Bookshelf", Category: "furniture", Description: "Oak shelves", CreatedBy: "ada"},
		{Title: "Kettle", Category: "kitchen", Description: "Electric kettle", CreatedBy: "ada"},
		{Title: "Armchair", Category: "furniture", Description: "Comfy and green", CreatedBy: "grace"},
		{Title: "Toaster", Category: "kitchen", Description: "Two slots, OAK trim", CreatedBy: "grace"},
	} {
		l.Condition = "used"
		l.PickupAddress = "1 Example Road"
		l.CreatedAt = time.Now().UTC()
		l.UpdatedAt = l.CreatedAt
		require.NoError(t, repo.CreateListing(ctx, &l))
	}

	titles := func(q giveaway.ListingQuery) ([]string, int) {
		listings, total, err := repo.ListListings(ctx, q)
		require.NoError(t, err)
		out := []string{}
		for _, l := range listings {
			out = append(out, l.Title)
		}
		return out, total
	}

	got, total := titles(giveaway.ListingQuery{})
	assert.Equal(t, []string{"Toaster", "Armchair", "Kettle", "Bookshelf"}, got)
	assert.Equal(t, 4, total)

	got, total = titles(giveaway.ListingQuery{Search: "oak"})
	assert.Equal(t, []string{"Toaster", "Bookshelf"}, got)
	assert.Equal(t, 2, total)

	got, _ = titles(giveaway.ListingQuery{SortBy: giveaway.SortByTitle, SortOrder: giveaway.SortAsc, Category: "furniture"})
	assert.Equal(t, []string{"Armchair", "Bookshelf"}, got)

	got, total = titles(giveaway.ListingQuery{Page: 2, PageSize: 3})
	assert.Equal(t, []string{"Bookshelf"}, got)
	assert.Equal(t, 4, total)
}

func TestRepository_Profiles(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	profile := &giveaway.Profile{Identity: "ada@example.com", Username: "ada", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateProfile(ctx, profile))
	require.NotZero(t, profile.ID)

	dup := &giveaway.Profile{Identity: "ada@example.com", Username: "other", CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, repo.CreateProfile(ctx, dup), giveaway.ErrProfileExists)

	got, err := repo.GetProfileByIdentity(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)

	got.Bio = "Gives away books"
	got.Avatar = "avatars/ada.png"
	require.NoError(t, repo.UpdateProfile(ctx, got))

	updated, err := repo.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gives away books", updated.Bio)
	assert.Equal(t, "avatars/ada.png", updated.Avatar)

	_, err = repo.GetProfile(ctx, profile.ID+100)
	assert.ErrorIs(t, err, giveaway.ErrProfileNotFound)
	_, err = repo.GetProfileByIdentity(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, giveaway.ErrProfileNotFound)
}
