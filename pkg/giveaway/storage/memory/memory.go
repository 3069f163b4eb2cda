package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// ErrObjectNotFound is returned by Get for unknown keys
var ErrObjectNotFound = errors.New("object not found")

// Backend is an in-memory bucket. It backs the development bucket served by
// presigned.Handlers and satisfies giveaway.ObjectStore.
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

// Put stores body under key, replacing any previous object
func (b *Backend) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	b.objectsMimeType[key] = contentType
	return nil
}

// Get returns the object bytes and content type
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, "", ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), b.objectsMimeType[key], nil
}

// ObjectExists reports whether key has been stored
func (b *Backend) ObjectExists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[key]
	return exists, nil
}

// Delete removes key. Deleting a missing key is not an error, matching S3.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	delete(b.objectsMimeType, key)
	return nil
}
