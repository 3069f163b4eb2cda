package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_PutGet(t *testing.T) {
	ctx := context.Background()
	b := New()

	require.NoError(t, b.Put(ctx, "listings/a.png", "image/png", strings.NewReader("png-bytes")))

	rc, contentType, err := b.Get(ctx, "listings/a.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)
}

func TestBackend_DefaultContentType(t *testing.T) {
	ctx := context.Background()
	b := New()

	require.NoError(t, b.Put(ctx, "k", "", strings.NewReader("x")))
	_, contentType, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", contentType)
}

func TestBackend_ExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	b := New()

	ok, err := b.ObjectExists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "k", "image/jpeg", strings.NewReader("x")))
	ok, err = b.ObjectExists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "k"))

	_, _, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
