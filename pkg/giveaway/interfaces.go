package giveaway

import "context"

// ListingService manages listings whose images were uploaded through presigned URLs.
type ListingService interface {
	CreateListing(ctx context.Context, identity string, req CreateListingRequest) (*Listing, error)
	GetListing(ctx context.Context, id int64) (*ListingDetail, error)
	UpdateListing(ctx context.Context, identity string, id int64, req UpdateListingRequest) (*Listing, error)
	DeleteListing(ctx context.Context, identity string, id int64) error
	SearchListings(ctx context.Context, query ListingQuery) (*ListingPage, error)
}

// Repository persists listings.
type Repository interface {
	// CreateListing stores the listing and assigns its ID.
	CreateListing(ctx context.Context, listing *Listing) error
	GetListing(ctx context.Context, id int64) (*Listing, error)
	UpdateListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id int64) error
	// ListListings returns one page of listings matching query, plus the total match count.
	ListListings(ctx context.Context, query ListingQuery) ([]*Listing, int, error)
}

// ProfileService manages the profiles of the people who post listings.
type ProfileService interface {
	GetProfile(ctx context.Context, identity string, id int64) (*ProfileView, error)
	// CurrentProfile returns the caller's profile, creating it on first use.
	CurrentProfile(ctx context.Context, identity string) (*ProfileView, error)
	UpdateProfile(ctx context.Context, identity string, id int64, req UpdateProfileRequest) (*ProfileView, error)
	ProfileListings(ctx context.Context, id int64, query ListingQuery) (*ListingPage, error)
}

// ProfileRepository persists profiles, one per identity.
type ProfileRepository interface {
	// CreateProfile stores the profile and assigns its ID. It returns
	// ErrProfileExists when the identity already has one.
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	GetProfileByIdentity(ctx context.Context, identity string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
}

// Store persists listings and profiles.
type Store interface {
	Repository
	ProfileRepository
}

// ObjectStore is the subset of object-store operations the listing service needs.
// Object bytes are owned by the bucket; the service never deletes them.
type ObjectStore interface {
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// ImageResolver maps stored image references to publicly fetchable URLs.
type ImageResolver interface {
	Resolve(value string) (string, error)
	ResolveAll(values []string) ([]string, error)
}
