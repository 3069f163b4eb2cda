package giveaway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// service implements the ListingService interface
type service struct {
	repository    Repository
	profiles      ProfileRepository
	objectStore   ObjectStore
	resolver      ImageResolver
	maxImages     int
	verifyUploads bool
	now           func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithProfileRepository sets where profiles live. Listings then carry their
// creator's username and new creators get a profile on first post.
func WithProfileRepository(repo ProfileRepository) Option {
	return func(s *service) {
		s.profiles = repo
	}
}

// WithStore sets both the listing and the profile repository
func WithStore(store Store) Option {
	return func(s *service) {
		s.repository = store
		s.profiles = store
	}
}

// WithObjectStore sets the object store used to verify listing images
func WithObjectStore(store ObjectStore) Option {
	return func(s *service) {
		s.objectStore = store
	}
}

// WithUploadVerification makes CreateListing and UpdateListing check that
// every object key has actually been uploaded. Requires an object store.
func WithUploadVerification(enabled bool) Option {
	return func(s *service) {
		s.verifyUploads = enabled
	}
}

// WithImageResolver sets the resolver used when listings are read back
func WithImageResolver(resolver ImageResolver) Option {
	return func(s *service) {
		s.resolver = resolver
	}
}

// WithMaxImages bounds the number of images per listing
func WithMaxImages(n int) Option {
	return func(s *service) {
		s.maxImages = n
	}
}

// New creates a new listing service with the given options
func New(options ...Option) (ListingService, error) {
	return newService(options...)
}

func newService(options ...Option) (*service, error) {
	s := &service{
		maxImages: DefaultUploadLimits().MaxFiles,
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.resolver == nil {
		return nil, fmt.Errorf("image resolver is required")
	}
	if s.verifyUploads && s.objectStore == nil {
		return nil, fmt.Errorf("upload verification requires an object store")
	}

	return s, nil
}

func (s *service) CreateListing(ctx context.Context, identity string, req CreateListingRequest) (*Listing, error) {
	if identity == "" {
		return nil, ErrUnauthorized
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.PickupAddress = strings.TrimSpace(req.PickupAddress)
	req.PickupInstructions = strings.TrimSpace(req.PickupInstructions)
	if err := collect(ValidateStruct(req), s.checkImageCount(req.Images)); err != nil {
		return nil, err
	}
	if err := s.verifyImages(ctx, req.Images); err != nil {
		return nil, err
	}
	if s.profiles != nil {
		if _, err := s.ensureProfile(ctx, identity); err != nil {
			return nil, err
		}
	}

	now := s.now()
	listing := &Listing{
		Title:              req.Title,
		Category:           req.Category,
		Condition:          req.Condition,
		Description:        req.Description,
		Images:             req.Images,
		PickupAddress:      req.PickupAddress,
		PickupInstructions: req.PickupInstructions,
		CreatedBy:          identity,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repository.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

func (s *service) GetListing(ctx context.Context, id int64) (*ListingDetail, error) {
	listing, err := s.repository.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.resolver.ResolveAll(listing.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve images for listing %d: %w", id, err)
	}

	detail := &ListingDetail{
		ListingCard:        toCard(listing, images),
		Description:        listing.Description,
		PickupInstructions: listing.PickupInstructions,
		Images:             images,
		CreatedBy:          listing.CreatedBy,
		CreatedAt:          listing.CreatedAt,
		UpdatedAt:          listing.UpdatedAt,
	}

	if s.profiles != nil {
		profile, err := s.profiles.GetProfileByIdentity(ctx, listing.CreatedBy)
		switch {
		case err == nil:
			detail.CreatedByProfileID = profile.ID
			detail.CreatedByUsername = profile.Username
		case !errors.Is(err, ErrProfileNotFound):
			return nil, fmt.Errorf("failed to load creator of listing %d: %w", id, err)
		}
	}
	return detail, nil
}

func (s *service) UpdateListing(ctx context.Context, identity string, id int64, req UpdateListingRequest) (*Listing, error) {
	listing, err := s.ownedListing(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	req.Title = trimmed(req.Title)
	req.Description = trimmed(req.Description)
	req.PickupAddress = trimmed(req.PickupAddress)
	req.PickupInstructions = trimmed(req.PickupInstructions)

	var imageCount error
	if req.Images != nil {
		imageCount = s.checkImageCount(req.Images)
	}
	if err := collect(ValidateStruct(req), imageCount); err != nil {
		return nil, err
	}
	if req.Images != nil {
		if err := s.verifyImages(ctx, req.Images); err != nil {
			return nil, err
		}
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Category != nil {
		listing.Category = *req.Category
	}
	if req.Condition != nil {
		listing.Condition = *req.Condition
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Images != nil {
		listing.Images = req.Images
	}
	if req.PickupAddress != nil {
		listing.PickupAddress = *req.PickupAddress
	}
	if req.PickupInstructions != nil {
		listing.PickupInstructions = *req.PickupInstructions
	}

	listing.UpdatedAt = s.now()
	if err := s.repository.UpdateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to update listing %d: %w", id, err)
	}
	return listing, nil
}

// DeleteListing removes the listing row only. Image objects stay in the
// bucket: their keys come from the client and may be shared with other listings.
func (s *service) DeleteListing(ctx context.Context, identity string, id int64) error {
	if _, err := s.ownedListing(ctx, identity, id); err != nil {
		return err
	}

	if err := s.repository.DeleteListing(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	return nil
}

func (s *service) SearchListings(ctx context.Context, query ListingQuery) (*ListingPage, error) {
	query = query.Normalize()

	listings, total, err := s.repository.ListListings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	page := &ListingPage{
		Listings: make([]ListingCard, 0, len(listings)),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	for _, l := range listings {
		images, err := s.resolver.ResolveAll(l.Images)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve images for listing %d: %w", l.ID, err)
		}
		page.Listings = append(page.Listings, toCard(l, images))
	}
	return page, nil
}

func (s *service) ownedListing(ctx context.Context, identity string, id int64) (*Listing, error) {
	if identity == "" {
		return nil, ErrUnauthorized
	}
	listing, err := s.repository.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.CreatedBy != identity {
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *service) checkImageCount(images []string) error {
	if s.maxImages < 1 {
		return nil
	}
	return ValidateVar("images", images, fmt.Sprintf("max=%d", s.maxImages))
}

func (s *service) verifyImages(ctx context.Context, images []string) error {
	if !s.verifyUploads {
		return nil
	}
	for i, key := range images {
		if IsExternalImage(key) {
			continue
		}
		ok, err := s.objectStore.ObjectExists(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to verify image %q: %w", key, err)
		}
		if !ok {
			return NewValidationError("Image has not been uploaded", map[string]interface{}{
				"index": i,
				"key":   key,
			})
		}
	}
	return nil
}

func toCard(l *Listing, images []string) ListingCard {
	primary := DefaultImage
	if len(images) > 0 {
		primary = images[0]
	}
	return ListingCard{
		ID:             l.ID,
		Title:          l.Title,
		Category:       l.Category,
		CategoryLabel:  CategoryLabel(l.Category),
		Condition:      l.Condition,
		ConditionLabel: ConditionLabel(l.Condition),
		PickupAddress:  l.PickupAddress,
		PrimaryImage:   primary,
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// IsNotFound reports whether err means the listing or profile does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrListingNotFound) || errors.Is(err, ErrProfileNotFound)
}
