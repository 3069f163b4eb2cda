package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket answers the handful of S3 calls the backend makes
type fakeBucket struct {
	mu       sync.Mutex
	objects  map[string]string
	types    map[string]string
	requests []string
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	key := strings.TrimPrefix(r.URL.Path, "/images/")
	switch r.Method {
	case http.MethodHead:
		if key == "forbidden.jpg" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = string(body)
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestBackend(t *testing.T) (*Backend, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{objects: map[string]string{"exists.jpg": "x"}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	backend, err := New(context.Background(), Config{
		Endpoint:        srv.URL,
		Region:          "auto",
		Bucket:          "images",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return backend, fake
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestBackend_ObjectExists(t *testing.T) {
	backend, _ := newTestBackend(t)
	ctx := context.Background()

	ok, err := backend.ObjectExists(ctx, "exists.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = backend.ObjectExists(ctx, "missing.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = backend.ObjectExists(ctx, "forbidden.jpg")
	assert.Error(t, err)
}

func TestBackend_Delete(t *testing.T) {
	backend, fake := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Delete(ctx, "exists.jpg"))

	ok, err := backend.ObjectExists(ctx, "exists.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "DELETE /images/exists.jpg")
}

func TestBackend_Upload(t *testing.T) {
	backend, fake := newTestBackend(t)

	err := backend.Upload(context.Background(), "seed/chair.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PUT /images/seed/chair.png")
	assert.Equal(t, "image/png", fake.types["seed/chair.png"])
}
