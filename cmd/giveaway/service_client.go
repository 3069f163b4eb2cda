package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/api"
	"github.com/tendant/simple-giveaway/pkg/giveaway/presigned"
)

// ServiceClient talks to a running giveaway server
type ServiceClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	uploader   *presigned.Client
	verbose    bool
}

// UploadResult is one uploaded file
type UploadResult struct {
	Path      string
	Key       string
	PublicURL string
}

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 && string(e.Details) != "null" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// NewServiceClient creates a client for the server at baseURL
func NewServiceClient(baseURL, token string, httpClient *http.Client, verbose bool) *ServiceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &ServiceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		verbose:    verbose,
	}

	opts := []presigned.ClientOption{presigned.WithHTTPClient(httpClient)}
	if verbose {
		opts = append(opts, presigned.WithProgress(func(p presigned.Progress) {
			if p.Uploaded == p.Total {
				fmt.Fprintf(os.Stderr, "[%d] %s: %d bytes sent\n", p.Index, p.Name, p.Uploaded)
			}
		}))
	}
	c.uploader = presigned.NewClient(opts...)
	return c
}

// Presign requests presigned uploads for a batch
func (c *ServiceClient) Presign(ctx context.Context, req giveaway.BatchRequest) ([]giveaway.PresignedUpload, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/uploads/presign", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("presign request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out api.PresignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode presign response: %w", err)
	}
	return out.Uploads, nil
}

// UploadFiles presigns all paths in one batch and uploads them concurrently.
// Results are in the order of paths.
func (c *ServiceClient) UploadFiles(ctx context.Context, paths []string, prefix string) ([]UploadResult, error) {
	files := make([]presigned.File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		files = append(files, presigned.File{
			Name: p,
			Type: detectMimeType(p),
			Size: info.Size(),
			Open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
	}

	uploads, err := c.Presign(ctx, giveaway.BatchRequest{Files: presigned.Items(files), Prefix: prefix})
	if err != nil {
		return nil, err
	}
	if c.verbose {
		fmt.Fprintf(os.Stderr, "Presigned %d uploads\n", len(uploads))
	}

	keys, err := c.uploader.UploadAll(ctx, uploads, files)
	if err != nil {
		return nil, err
	}

	publicURLs := make(map[string]string, len(uploads))
	for _, u := range uploads {
		publicURLs[u.Key] = u.PublicURL
	}

	results := make([]UploadResult, len(files))
	for i, key := range keys {
		results[i] = UploadResult{Path: paths[i], Key: key, PublicURL: publicURLs[key]}
	}
	return results, nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error, Details: body.Details}
}

// detectMimeType maps image extensions to the types the presign endpoint accepts
func detectMimeType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
