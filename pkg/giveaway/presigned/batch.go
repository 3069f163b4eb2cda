package presigned

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// File is one local file of a batch, addressed by its position in the batch
type File struct {
	Name string
	Type string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Items describes files as the upload request sent to the presign endpoint
func Items(files []File) []giveaway.UploadRequestItem {
	items := make([]giveaway.UploadRequestItem, len(files))
	for i, f := range files {
		items[i] = giveaway.UploadRequestItem{Size: f.Size, Type: f.Type, Index: i}
	}
	return items
}

// UploadAll PUTs every file to its presigned upload concurrently and returns
// the object keys in the order of files. uploads are matched to files by
// Index. The first failure cancels the remaining uploads.
func (c *Client) UploadAll(ctx context.Context, uploads []giveaway.PresignedUpload, files []File) ([]string, error) {
	if len(uploads) != len(files) {
		return nil, fmt.Errorf("got %d presigned uploads for %d files", len(uploads), len(files))
	}

	keys := make([]string, len(files))
	seen := make([]bool, len(files))
	for _, u := range uploads {
		if u.Index < 0 || u.Index >= len(files) {
			return nil, fmt.Errorf("presigned upload index %d out of range", u.Index)
		}
		if seen[u.Index] {
			return nil, fmt.Errorf("duplicate presigned upload for index %d", u.Index)
		}
		seen[u.Index] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, u := range uploads {
		g.Go(func() error {
			file := files[u.Index]
			rc, err := file.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", file.Name, err)
			}
			defer rc.Close()

			opts := []UploadOption{WithContentType(file.Type), WithHeaders(u.Headers), WithFile(u.Index, file.Name)}
			if file.Size > 0 {
				opts = append(opts, WithContentLength(file.Size))
			}
			if err := c.Upload(gctx, u.UploadURL, rc, opts...); err != nil {
				return fmt.Errorf("upload %s: %w", file.Name, err)
			}
			keys[u.Index] = u.Key
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}
