package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// Repository implements giveaway.Store using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	nextID   int64
	listings map[int64]*giveaway.Listing

	nextProfileID int64
	profiles      map[int64]*giveaway.Profile
	byIdentity    map[string]int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		nextID:        1,
		listings:      make(map[int64]*giveaway.Listing),
		nextProfileID: 1,
		profiles:      make(map[int64]*giveaway.Profile),
		byIdentity:    make(map[string]int64),
	}
}

func (r *Repository) CreateListing(ctx context.Context, listing *giveaway.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing.ID = r.nextID
	r.nextID++
	r.listings[listing.ID] = clone(listing)

	return nil
}

func (r *Repository) GetListing(ctx context.Context, id int64) (*giveaway.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, exists := r.listings[id]
	if !exists {
		return nil, giveaway.ErrListingNotFound
	}
	return clone(listing), nil
}

func (r *Repository) UpdateListing(ctx context.Context, listing *giveaway.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.listings[listing.ID]; !exists {
		return giveaway.ErrListingNotFound
	}
	r.listings[listing.ID] = clone(listing)

	return nil
}

func (r *Repository) DeleteListing(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.listings[id]; !exists {
		return giveaway.ErrListingNotFound
	}
	delete(r.listings, id)

	return nil
}

func (r *Repository) ListListings(ctx context.Context, query giveaway.ListingQuery) ([]*giveaway.Listing, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = query.Normalize()

	excluded := make(map[int64]bool, len(query.ExcludeIDs))
	for _, id := range query.ExcludeIDs {
		excluded[id] = true
	}
	search := strings.ToLower(strings.TrimSpace(query.Search))

	var matches []*giveaway.Listing
	for _, l := range r.listings {
		if excluded[l.ID] {
			continue
		}
		if query.Category != "" && l.Category != query.Category {
			continue
		}
		if query.CreatedBy != "" && l.CreatedBy != query.CreatedBy {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Title), search) &&
			!strings.Contains(strings.ToLower(l.Description), search) {
			continue
		}
		matches = append(matches, l)
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if query.SortBy == giveaway.SortByTitle && a.Title != b.Title {
			if query.SortOrder == giveaway.SortAsc {
				return a.Title < b.Title
			}
			return a.Title > b.Title
		}
		if query.SortOrder == giveaway.SortAsc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})

	total := len(matches)
	start := query.Offset()
	if start > total {
		start = total
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}

	page := make([]*giveaway.Listing, 0, end-start)
	for _, l := range matches[start:end] {
		page = append(page, clone(l))
	}
	return page, total, nil
}

func clone(l *giveaway.Listing) *giveaway.Listing {
	c := *l
	c.Images = append([]string(nil), l.Images...)
	return &c
}
