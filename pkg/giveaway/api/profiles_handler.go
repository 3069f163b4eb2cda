package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/auth"
)

// ProfilesHandler serves public profiles and lets owners edit their own
type ProfilesHandler struct {
	service giveaway.ProfileService
}

func NewProfilesHandler(service giveaway.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{service: service}
}

// Routes returns the router for profile endpoints
func (h *ProfilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.CurrentProfile)
	r.Get("/{id}", h.GetProfile)
	r.Put("/{id}", h.UpdateProfile)
	r.Get("/{id}/listings", h.ProfileListings)
	return r
}

// UpdateProfileResponse acknowledges a profile update
type UpdateProfileResponse struct {
	Success bool                  `json:"success"`
	ID      int64                 `json:"id"`
	Profile *giveaway.ProfileView `json:"profile"`
}

// CurrentProfile returns the caller's profile, creating it on first visit
func (h *ProfilesHandler) CurrentProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, giveaway.ErrUnauthorized)
		return
	}

	profile, err := h.service.CurrentProfile(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, profile)
}

// GetProfile returns a public profile with its avatar URL
func (h *ProfilesHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	profile, err := h.service.GetProfile(r.Context(), identity, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, profile)
}

// UpdateProfile changes username, bio or avatar; only the owner may do this
func (h *ProfilesHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, giveaway.ErrUnauthorized)
		return
	}

	id, err := profileID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req giveaway.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), identity, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Profile updated", "id", id, "updated_by", identity)
	render.JSON(w, r, UpdateProfileResponse{Success: true, ID: id, Profile: profile})
}

// ProfileListings returns one page of the listings a profile has posted.
// It accepts the same query parameters as listing search except createdBy.
func (h *ProfilesHandler) ProfileListings(w http.ResponseWriter, r *http.Request) {
	id, err := profileID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query, err := parseListingQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.service.ProfileListings(r.Context(), id, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func profileID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, giveaway.NewValidationError("Invalid profile id", nil)
	}
	return id, nil
}
