package presigned

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// BlobStore is the byte store behind the development bucket
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Handlers serves a bucket that accepts the PUT URLs produced by a Signer.
// It stands in for R2 when running locally: point R2_ENDPOINT and
// R2_PUBLIC_BASE_URL at the server and uploads land in the BlobStore.
type Handlers struct {
	signer   *Signer
	store    BlobStore
	maxBytes int64
}

// NewHandlers creates development bucket handlers. maxBytes <= 0 disables the
// body limit.
func NewHandlers(signer *Signer, store BlobStore, maxBytes int64) *Handlers {
	return &Handlers{
		signer:   signer,
		store:    store,
		maxBytes: maxBytes,
	}
}

// HandleUpload handles PUT /{bucket}/{key...} with a SigV4 query signature
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "*")
	if objectKey == "" {
		writeError(w, r, http.StatusBadRequest, "object key is required in URL path")
		return
	}

	if err := h.signer.VerifyRequest(r); err != nil {
		slog.Warn("Presigned upload rejected", "key", objectKey, "error", err)
		writeError(w, r, http.StatusForbidden, err.Error())
		return
	}

	body := io.Reader(r.Body)
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	contentType := r.Header.Get("Content-Type")
	if err := h.store.Put(r.Context(), objectKey, contentType, body); err != nil {
		slog.Error("Presigned upload failed", "key", objectKey, "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to store object")
		return
	}

	slog.Debug("Presigned upload stored", "key", objectKey, "content_type", contentType)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload handles public GET /{bucket}/{key...}
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "*")
	if objectKey == "" {
		writeError(w, r, http.StatusBadRequest, "object key is required in URL path")
		return
	}

	rc, contentType, err := h.store.Get(r.Context(), objectKey)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "object not found")
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Object download copy error", "key", objectKey, "error", err)
	}
}

// Mount mounts the bucket routes on a chi router
func (h *Handlers) Mount(r chi.Router) {
	path := "/" + h.signer.Bucket() + "/*"
	r.Put(path, h.HandleUpload)
	r.Get(path, h.HandleDownload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
