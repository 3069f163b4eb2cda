package presigned

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client uploads file bytes to presigned URLs
type Client struct {
	httpClient    *http.Client
	retryAttempts int
	retryDelay    time.Duration
	concurrency   int
	progressFunc  ProgressFunc
}

// Progress reports how far one file's upload has got. UploadAll runs
// several uploads at once, so reports for different files interleave.
type Progress struct {
	Index    int    // position of the file in an UploadAll batch
	Name     string // file name, if known
	Uploaded int64
	Total    int64 // -1 when the length is unknown
}

// ProgressFunc is called during upload to report progress. It may be called
// from several goroutines at once.
type ProgressFunc func(Progress)

// ClientOption is a functional option for configuring a Client
type ClientOption func(*Client)

// NewClient creates a new presigned upload client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
		retryAttempts: 3,
		retryDelay:    1 * time.Second,
		concurrency:   3,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRetry configures retry behavior
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// WithConcurrency bounds the number of parallel PUTs made by UploadAll
func WithConcurrency(n int) ClientOption {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

// WithProgress sets a progress callback function
func WithProgress(fn ProgressFunc) ClientOption {
	return func(c *Client) {
		c.progressFunc = fn
	}
}

// Upload PUTs data to a presigned URL. Network errors and 5xx responses are
// retried with a linear backoff; 4xx responses are returned immediately.
// A data reader that is also an io.Seeker is rewound before each retry.
//
// Example:
//
//	client := presigned.NewClient()
//	err := client.Upload(ctx, upload.UploadURL, file, presigned.WithHeaders(upload.Headers))
func (c *Client) Upload(ctx context.Context, presignedURL string, data io.Reader, opts ...UploadOption) error {
	uploadOpts := &uploadOptions{
		contentType:   "application/octet-stream",
		contentLength: -1,
	}
	for _, opt := range opts {
		opt(uploadOpts)
	}

	seeker, canRewind := data.(io.Seeker)

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			if !canRewind {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("failed to rewind upload body: %w", err)
			}
		}

		reader := data
		if c.progressFunc != nil {
			reader = &progressReader{
				reader:   data,
				callback: c.progressFunc,
				progress: Progress{Index: uploadOpts.index, Name: uploadOpts.name, Total: uploadOpts.contentLength},
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if uploadOpts.contentLength >= 0 {
			req.ContentLength = uploadOpts.contentLength
		}

		req.Header.Set("Content-Type", uploadOpts.contentType)
		for k, v := range uploadOpts.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("upload failed: %w", err)
			continue
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = fmt.Errorf("upload failed with status: %s", resp.Status)

		// Don't retry on client errors (4xx)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}

	return fmt.Errorf("upload failed after %d attempts: %w", c.retryAttempts, lastErr)
}

// uploadOptions contains upload configuration
type uploadOptions struct {
	contentType   string
	contentLength int64
	headers       map[string]string
	index         int
	name          string
}

// UploadOption is a functional option for Upload method
type UploadOption func(*uploadOptions)

// WithContentType sets the Content-Type header for the upload
func WithContentType(contentType string) UploadOption {
	return func(o *uploadOptions) {
		o.contentType = contentType
	}
}

// WithContentLength sets the request length. S3-compatible stores reject
// chunked PUTs, so callers streaming from a file should set it.
func WithContentLength(n int64) UploadOption {
	return func(o *uploadOptions) {
		o.contentLength = n
	}
}

// WithFile labels the progress reports of this upload
func WithFile(index int, name string) UploadOption {
	return func(o *uploadOptions) {
		o.index = index
		o.name = name
	}
}

// WithHeader adds a custom header to the upload request
func WithHeader(key, value string) UploadOption {
	return func(o *uploadOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithHeaders replays the headers returned alongside a presigned URL verbatim
func WithHeaders(headers map[string]string) UploadOption {
	return func(o *uploadOptions) {
		for k, v := range headers {
			if http.CanonicalHeaderKey(k) == "Content-Type" {
				o.contentType = v
				continue
			}
			WithHeader(k, v)(o)
		}
	}
}

// progressReader wraps an io.Reader to track upload progress
type progressReader struct {
	reader   io.Reader
	callback ProgressFunc
	progress Progress
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.progress.Uploaded += int64(n)
	if pr.callback != nil && n > 0 {
		pr.callback(pr.progress)
	}
	return n, err
}
