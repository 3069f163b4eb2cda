package memory

import (
	"context"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

func (r *Repository) CreateProfile(ctx context.Context, profile *giveaway.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byIdentity[profile.Identity]; exists {
		return giveaway.ErrProfileExists
	}

	profile.ID = r.nextProfileID
	r.nextProfileID++
	c := *profile
	r.profiles[profile.ID] = &c
	r.byIdentity[profile.Identity] = profile.ID

	return nil
}

func (r *Repository) GetProfile(ctx context.Context, id int64) (*giveaway.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[id]
	if !exists {
		return nil, giveaway.ErrProfileNotFound
	}
	c := *profile
	return &c, nil
}

func (r *Repository) GetProfileByIdentity(ctx context.Context, identity string) (*giveaway.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byIdentity[identity]
	if !exists {
		return nil, giveaway.ErrProfileNotFound
	}
	c := *r.profiles[id]
	return &c, nil
}

// UpdateProfile replaces username, bio and avatar. The identity never changes.
func (r *Repository) UpdateProfile(ctx context.Context, profile *giveaway.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.profiles[profile.ID]
	if !exists {
		return giveaway.ErrProfileNotFound
	}
	c := *profile
	c.Identity = existing.Identity
	c.CreatedAt = existing.CreatedAt
	r.profiles[profile.ID] = &c

	return nil
}
