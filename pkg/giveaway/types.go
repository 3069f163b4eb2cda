package giveaway

import (
	"math"
	"time"
)

// UploadRequestItem is one file the client wants to upload.
// Index is assigned by the client and echoed back untouched.
type UploadRequestItem struct {
	Size  int64  `json:"size" validate:"gt=0"`
	Type  string `json:"type"`
	Index int    `json:"index" validate:"gte=0"`
}

// BatchRequest is a batch of files submitted together, optionally namespaced under Prefix.
type BatchRequest struct {
	Files  []UploadRequestItem `json:"files" validate:"min=1,dive"`
	Prefix string              `json:"prefix,omitempty" validate:"max=64,keyprefix"`
}

// PresignedUpload is the per-file result of a presign batch. It is never persisted.
type PresignedUpload struct {
	Index     int               `json:"index"`
	Key       string            `json:"key"`
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
	PublicURL string            `json:"publicUrl"`
}

// UploadLimits are the process-wide limits applied to every presign batch.
type UploadLimits struct {
	MaxFiles      int
	MaxFileSize   int64
	AcceptedTypes []string
}

// DefaultUploadLimits mirrors the listing form: 5 images, 5MB each, JPG/PNG/WebP.
func DefaultUploadLimits() UploadLimits {
	return UploadLimits{
		MaxFiles:      5,
		MaxFileSize:   5 * 1024 * 1024,
		AcceptedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
	}
}

// Accepts reports whether mimeType is in the accepted set.
func (l UploadLimits) Accepts(mimeType string) bool {
	for _, t := range l.AcceptedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// Listing is a donated item offered for pickup.
type Listing struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Category           string    `json:"category"`
	Condition          string    `json:"condition"`
	Description        string    `json:"description"`
	Images             []string  `json:"images"` // object keys or legacy paths
	PickupAddress      string    `json:"pickupAddress"`
	PickupInstructions string    `json:"pickupInstructions,omitempty"`
	CreatedBy          string    `json:"createdBy"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ListingCard is the summary shown in listing grids.
type ListingCard struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	CategoryLabel  string `json:"categoryLabel"`
	Condition      string `json:"condition"`
	ConditionLabel string `json:"conditionLabel"`
	PickupAddress  string `json:"pickupAddress"`
	PrimaryImage   string `json:"primaryImage"`
}

// ListingDetail is a listing with resolved public image URLs.
type ListingDetail struct {
	ListingCard
	Description        string    `json:"description"`
	PickupInstructions string    `json:"pickupInstructions,omitempty"`
	Images             []string  `json:"images"`
	CreatedBy          string    `json:"createdBy"`
	CreatedByProfileID int64     `json:"createdByProfileId,omitempty"`
	CreatedByUsername  string    `json:"createdByUsername,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SortBy selects the listing sort column.
type SortBy string

const (
	SortByID    SortBy = "id"
	SortByTitle SortBy = "title"
)

// SortOrder selects ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	// DefaultPageSize is used when a query does not specify one.
	DefaultPageSize = 12
	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 100
)

// ListingQuery filters and paginates listings.
type ListingQuery struct {
	Search     string
	Category   string
	CreatedBy  string
	ExcludeIDs []int64
	Page       int
	PageSize   int
	SortBy     SortBy
	SortOrder  SortOrder
}

// Normalize applies defaults: page at least 1, page size in [1, MaxPageSize],
// sort by id descending.
func (q ListingQuery) Normalize() ListingQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.SortBy != SortByTitle {
		q.SortBy = SortByID
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	return q
}

// Offset returns the row offset for the query page. Pages past the point
// where the offset would overflow return math.MaxInt, which matches nothing.
func (q ListingQuery) Offset() int {
	q = q.Normalize()
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// ListingPage is one page of listing cards.
type ListingPage struct {
	Listings []ListingCard `json:"listings"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// Profile is the public face of an identity: the person who posts listings.
// Avatar holds an object key uploaded through the presign flow.
type Profile struct {
	ID        int64     `json:"id"`
	Identity  string    `json:"-"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileView is a profile with its avatar resolved to a public URL.
type ProfileView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	IsOwner  bool   `json:"isOwner"`
}
