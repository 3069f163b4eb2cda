package giveaway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
)

// NewProfileService creates the profile service. It needs a listing
// repository, a profile repository and an image resolver.
func NewProfileService(options ...Option) (ProfileService, error) {
	s, err := newService(options...)
	if err != nil {
		return nil, err
	}
	if s.profiles == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	return s, nil
}

func (s *service) GetProfile(ctx context.Context, identity string, id int64) (*ProfileView, error) {
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profileView(profile, identity)
}

func (s *service) CurrentProfile(ctx context.Context, identity string) (*ProfileView, error) {
	if identity == "" {
		return nil, ErrUnauthorized
	}
	profile, err := s.ensureProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.profileView(profile, identity)
}

func (s *service) UpdateProfile(ctx context.Context, identity string, id int64, req UpdateProfileRequest) (*ProfileView, error) {
	if identity == "" {
		return nil, ErrUnauthorized
	}
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Identity != identity {
		return nil, ErrForbidden
	}

	req.Username = trimmed(req.Username)
	req.Bio = trimmed(req.Bio)
	req.Avatar = trimmed(req.Avatar)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Avatar != nil && *req.Avatar != "" {
		if err := s.verifyImages(ctx, []string{*req.Avatar}); err != nil {
			return nil, err
		}
	}

	if req.Username != nil {
		profile.Username = *req.Username
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Avatar != nil {
		profile.Avatar = *req.Avatar
	}

	profile.UpdatedAt = s.now()
	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile %d: %w", id, err)
	}
	return s.profileView(profile, identity)
}

func (s *service) ProfileListings(ctx context.Context, id int64, query ListingQuery) (*ListingPage, error) {
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	query.CreatedBy = profile.Identity
	return s.SearchListings(ctx, query)
}

// ensureProfile returns the profile of identity, creating one named after the
// local part of the address when none exists yet.
func (s *service) ensureProfile(ctx context.Context, identity string) (*Profile, error) {
	profile, err := s.profiles.GetProfileByIdentity(ctx, identity)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	now := s.now()
	profile = &Profile{
		Identity:  identity,
		Username:  DefaultUsername(identity),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.profiles.CreateProfile(ctx, profile)
	if errors.Is(err, ErrProfileExists) {
		// lost a race with a concurrent first request
		return s.profiles.GetProfileByIdentity(ctx, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *service) profileView(p *Profile, identity string) (*ProfileView, error) {
	view := &ProfileView{
		ID:       p.ID,
		Username: p.Username,
		Bio:      p.Bio,
		IsOwner:  identity != "" && identity == p.Identity,
	}
	if p.Avatar != "" {
		avatar, err := s.resolver.Resolve(p.Avatar)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve avatar of profile %d: %w", p.ID, err)
		}
		view.Avatar = avatar
	}
	return view, nil
}

// DefaultUsername derives a username from the local part of an email address,
// padded or truncated to fit the username length rules.
func DefaultUsername(identity string) string {
	name, _, _ := strings.Cut(identity, "@")
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxUsernameLength {
		name = string([]rune(name)[:maxUsernameLength])
	}
	for utf8.RuneCountInString(name) < minUsernameLength {
		name += "_"
	}
	return name
}
