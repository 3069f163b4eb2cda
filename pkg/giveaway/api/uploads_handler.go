package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/auth"
	"github.com/tendant/simple-giveaway/pkg/giveaway/uploads"
)

// BatchPresigner issues presigned uploads for a validated batch; *uploads.Service implements it
type BatchPresigner interface {
	Presign(ctx context.Context, identity string, req giveaway.BatchRequest) ([]giveaway.PresignedUpload, error)
}

// UploadsHandler serves the presign endpoint
type UploadsHandler struct {
	service BatchPresigner
}

func NewUploadsHandler(service BatchPresigner) *UploadsHandler {
	return &UploadsHandler{service: service}
}

// Routes returns the router for upload endpoints
func (h *UploadsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/presign", h.Presign)
	return r
}

// PresignResponse is the body of a successful presign call
type PresignResponse struct {
	Uploads []giveaway.PresignedUpload `json:"uploads"`
}

// Presign validates a batch of file descriptors and returns one presigned
// PUT target per file, ordered by client index. The body is not read until
// the caller is known.
func (h *UploadsHandler) Presign(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, giveaway.ErrUnauthorized)
		return
	}

	req, err := uploads.DecodeRequest(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	presigned, err := h.service.Presign(r.Context(), identity, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Presigned uploads", "identity", identity, "count", len(presigned), "prefix", req.Prefix)
	render.JSON(w, r, PresignResponse{Uploads: presigned})
}
