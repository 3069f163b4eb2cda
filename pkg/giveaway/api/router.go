// Package api exposes the giveaway HTTP API: presigned upload batches,
// listing CRUD and profiles. Handlers read the caller's identity from the session token
// verified by the auth package.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// Options configures the API router
type Options struct {
	Uploads  BatchPresigner
	Listings giveaway.ListingService
	Profiles giveaway.ProfileService

	// Verifier decodes the session token into the request context; see auth.Authenticator.Verifier
	Verifier func(http.Handler) http.Handler

	Logger         *slog.Logger
	AllowedOrigins []string
}

// Routes returns the router mounted under /api
func Routes(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(opts.Logger))
	r.Use(RecoveryMiddleware)
	r.Use(CORSMiddleware(opts.AllowedOrigins))
	if opts.Verifier != nil {
		r.Use(opts.Verifier)
	}

	if opts.Uploads != nil {
		r.Mount("/uploads", NewUploadsHandler(opts.Uploads).Routes())
	}
	if opts.Listings != nil {
		r.Mount("/listings", NewListingsHandler(opts.Listings).Routes())
	}
	if opts.Profiles != nil {
		r.Mount("/profiles", NewProfilesHandler(opts.Profiles).Routes())
	}
	return r
}
