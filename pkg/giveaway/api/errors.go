package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// statusFor maps a service error to its HTTP status and response body
func statusFor(err error) (int, ErrorResponse) {
	var ve *giveaway.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Error: ve.Message, Details: ve.Details}
	case errors.Is(err, giveaway.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"}
	case errors.Is(err, giveaway.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "Forbidden"}
	case errors.Is(err, giveaway.ErrListingNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Listing not found"}
	case errors.Is(err, giveaway.ErrProfileNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Profile not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"config_error", giveaway.IsConfigError(err),
			"error", err,
		)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
