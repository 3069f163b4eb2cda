// Package uploads validates presign batches and issues one presigned PUT per
// file. Nothing is persisted; objects only exist once the client uploads.
package uploads

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/objectkey"
	"github.com/tendant/simple-giveaway/pkg/giveaway/presigned"
	"github.com/tendant/simple-giveaway/pkg/giveaway/urlstrategy"
)

// Presigner issues presigned uploads; *presigned.Signer implements it
type Presigner interface {
	CreateUpload(key, contentType string, size int64) (*presigned.Upload, error)
}

// Service turns a batch request into presigned uploads
type Service struct {
	presigner Presigner
	keys      objectkey.Generator
	urls      urlstrategy.URLStrategy
	limits    giveaway.UploadLimits
}

// Option configures a Service
type Option func(*Service)

// WithPresigner sets the presign engine
func WithPresigner(p Presigner) Option {
	return func(s *Service) {
		s.presigner = p
	}
}

// WithKeyGenerator replaces the default random key generator
func WithKeyGenerator(g objectkey.Generator) Option {
	return func(s *Service) {
		s.keys = g
	}
}

// WithURLStrategy sets how public URLs are derived from keys
func WithURLStrategy(u urlstrategy.URLStrategy) Option {
	return func(s *Service) {
		s.urls = u
	}
}

// WithLimits overrides giveaway.DefaultUploadLimits
func WithLimits(l giveaway.UploadLimits) Option {
	return func(s *Service) {
		s.limits = l
	}
}

// New creates an upload Service
func New(opts ...Option) (*Service, error) {
	s := &Service{
		keys:   objectkey.NewRandomGenerator(),
		limits: giveaway.DefaultUploadLimits(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.presigner == nil {
		return nil, errors.New("uploads: presigner is required")
	}
	if s.urls == nil {
		return nil, errors.New("uploads: url strategy is required")
	}
	if s.limits.MaxFiles < 1 || s.limits.MaxFileSize < 1 {
		return nil, fmt.Errorf("uploads: invalid limits %+v", s.limits)
	}
	return s, nil
}

// Limits returns the limits applied to every batch
func (s *Service) Limits() giveaway.UploadLimits {
	return s.limits
}

// Presign validates the whole batch and, only if every file passes, presigns
// all of them concurrently. Results are sorted by client index.
func (s *Service) Presign(ctx context.Context, identity string, req giveaway.BatchRequest) ([]giveaway.PresignedUpload, error) {
	if identity == "" {
		return nil, giveaway.ErrUnauthorized
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	uploads := make([]giveaway.PresignedUpload, len(req.Files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			upload, err := s.presignOne(req.Prefix, file)
			if err != nil {
				return fmt.Errorf("presign file %d: %w", file.Index, err)
			}
			uploads[i] = upload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(uploads, func(a, b giveaway.PresignedUpload) int {
		return a.Index - b.Index
	})
	return uploads, nil
}

func (s *Service) presignOne(prefix string, file giveaway.UploadRequestItem) (giveaway.PresignedUpload, error) {
	key, err := s.keys.GenerateKey(prefix, file.Type)
	if err != nil {
		return giveaway.PresignedUpload{}, err
	}

	upload, err := s.presigner.CreateUpload(key, file.Type, file.Size)
	if err != nil {
		return giveaway.PresignedUpload{}, err
	}

	publicURL, err := s.urls.PublicURL(upload.Key)
	if err != nil {
		return giveaway.PresignedUpload{}, err
	}

	return giveaway.PresignedUpload{
		Index:     file.Index,
		Key:       upload.Key,
		UploadURL: upload.URL,
		Headers:   upload.Headers,
		PublicURL: publicURL,
	}, nil
}

// validate runs every check before any key is generated or URL signed:
// batch size, prefix, per-file shape, then the size and type limits.
func (s *Service) validate(req giveaway.BatchRequest) error {
	if err := giveaway.ValidateVar("files", req.Files, fmt.Sprintf("min=1,max=%d", s.limits.MaxFiles)); err != nil {
		return err
	}
	if err := objectkey.ValidatePrefix(req.Prefix); err != nil {
		return err
	}
	if err := giveaway.ValidateStruct(req); err != nil {
		return err
	}

	for _, file := range req.Files {
		if file.Size > s.limits.MaxFileSize {
			return giveaway.NewValidationError("File size exceeds limit", giveaway.FileSizeDetails{
				Index: file.Index, MaxSize: s.limits.MaxFileSize,
			})
		}
		if !s.limits.Accepts(file.Type) {
			return giveaway.NewValidationError("Unsupported file type", giveaway.FileTypeDetails{
				Index: file.Index, Type: file.Type,
			})
		}
	}
	return nil
}
