package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/auth"
)

// maxListingBody bounds listing create and update payloads
const maxListingBody = 64 << 10

// ListingsHandler handles listing CRUD and search
type ListingsHandler struct {
	service giveaway.ListingService
}

func NewListingsHandler(service giveaway.ListingService) *ListingsHandler {
	return &ListingsHandler{service: service}
}

// Routes returns the router for listing endpoints
func (h *ListingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateListing)
	r.Get("/", h.SearchListings)
	r.Get("/{id}", h.GetListing)
	r.Put("/{id}", h.UpdateListing)
	r.Delete("/{id}", h.DeleteListing)
	return r
}

// CreateListingResponse carries the id of a new listing
type CreateListingResponse struct {
	ID int64 `json:"id"`
}

// CreateListing stores a listing whose images were uploaded through presigned URLs
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, giveaway.ErrUnauthorized)
		return
	}

	var req giveaway.CreateListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.service.CreateListing(r.Context(), identity, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Listing created", "id", listing.ID, "created_by", identity, "images", len(listing.Images))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreateListingResponse{ID: listing.ID})
}

// GetListing returns a listing with resolved image URLs
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.service.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}

// UpdateListing applies a partial update; only the owner may do this
func (h *ListingsHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, giveaway.ErrUnauthorized)
		return
	}

	id, err := listingID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req giveaway.UpdateListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.service.UpdateListing(r.Context(), identity, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, listing)
}

// DeleteListing removes a listing; only the owner may do this
func (h *ListingsHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, giveaway.ErrUnauthorized)
		return
	}

	id, err := listingID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteListing(r.Context(), identity, id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Listing deleted", "id", id, "deleted_by", identity)
	w.WriteHeader(http.StatusNoContent)
}

// SearchListings returns one page of listing cards.
//
// Query parameters: search, category, createdBy, exclude (comma separated or
// repeated ids), page, pageSize, sortBy (id|title), sortOrder (asc|desc).
func (h *ListingsHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	query, err := parseListingQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.service.SearchListings(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, page)
}

func parseListingQuery(r *http.Request) (giveaway.ListingQuery, error) {
	values := r.URL.Query()
	q := giveaway.ListingQuery{
		Search:    strings.TrimSpace(values.Get("search")),
		Category:  values.Get("category"),
		CreatedBy: values.Get("createdBy"),
		SortBy:    giveaway.SortBy(values.Get("sortBy")),
		SortOrder: giveaway.SortOrder(values.Get("sortOrder")),
	}

	var issues []giveaway.Issue
	intParam := func(name, tag string) int {
		raw := values.Get(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, giveaway.Issue{Field: name, Message: "Expected positive integer"})
			return 0
		}
		if err := giveaway.ValidateVar(name, n, tag); err != nil {
			var ve *giveaway.ValidationError
			if errors.As(err, &ve) {
				if more, ok := ve.Details.([]giveaway.Issue); ok {
					issues = append(issues, more...)
				}
			}
			return 0
		}
		return n
	}
	q.Page = intParam("page", "gte=1")
	q.PageSize = intParam("pageSize", fmt.Sprintf("gte=1,max=%d", giveaway.MaxPageSize))

	for _, raw := range values["exclude"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				issues = append(issues, giveaway.Issue{Field: "exclude", Message: "Expected listing id"})
				continue
			}
			q.ExcludeIDs = append(q.ExcludeIDs, id)
		}
	}

	if len(issues) > 0 {
		return q, giveaway.NewValidationError("Validation error", issues)
	}
	return q, nil
}

func listingID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, giveaway.NewValidationError("Invalid listing id", nil)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxListingBody))
	if err := dec.Decode(v); err != nil {
		return giveaway.NewValidationError("Invalid JSON body", nil)
	}
	return nil
}
