package presigned

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
	"github.com/tendant/simple-giveaway/pkg/giveaway/sigv4"
)

const (
	// DefaultExpiration is the validity of URLs produced by PresignPut
	DefaultExpiration = 10 * time.Minute

	// MinExpirySeconds and MaxExpirySeconds bound X-Amz-Expires
	MinExpirySeconds = 1
	MaxExpirySeconds = 604800

	// DefaultRegion is the signing region R2 expects
	DefaultRegion = "auto"

	r2HostSuffix = ".r2.cloudflarestorage.com"

	intentParam     = "x-id"
	putObjectIntent = "PutObject"
)

// Signer produces SigV4 query-presigned PUT URLs for an S3-compatible bucket
type Signer struct {
	accountID         string
	endpoint          string
	scheme            string
	bucket            string
	accessKeyID       string
	secretAccessKey   string
	region            string
	defaultExpiration time.Duration
	now               func() time.Time
}

// Upload is a single presigned upload target
type Upload struct {
	Key       string
	URL       string
	Headers   map[string]string
	Size      int64
	ExpiresAt time.Time
}

// New creates a Signer. It returns a *giveaway.ConfigError naming the first
// missing setting.
func New(opts ...Option) (*Signer, error) {
	s := &Signer{
		scheme:            "https",
		region:            DefaultRegion,
		defaultExpiration: DefaultExpiration,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Signer) validate() error {
	switch {
	case s.accountID == "" && s.endpoint == "":
		return &giveaway.ConfigError{Variable: "R2_ACCOUNT_ID"}
	case s.accessKeyID == "":
		return &giveaway.ConfigError{Variable: "R2_ACCESS_KEY_ID"}
	case s.secretAccessKey == "":
		return &giveaway.ConfigError{Variable: "R2_SECRET_ACCESS_KEY"}
	case s.bucket == "":
		return &giveaway.ConfigError{Variable: "R2_BUCKET_NAME"}
	case strings.Contains(s.bucket, "/"):
		return &giveaway.ConfigError{Variable: "R2_BUCKET_NAME", Reason: "must not contain '/'"}
	case s.scheme != "http" && s.scheme != "https":
		return &giveaway.ConfigError{Variable: "R2_SCHEME", Reason: "must be http or https"}
	}
	return nil
}

// Host returns the host presigned URLs are addressed to
func (s *Signer) Host() string {
	if s.endpoint != "" {
		return s.endpoint
	}
	return s.accountID + r2HostSuffix
}

// Bucket returns the configured bucket name
func (s *Signer) Bucket() string {
	return s.bucket
}

// ObjectPath returns the canonical, encoded path of key inside the bucket
func (s *Signer) ObjectPath(key string) string {
	return "/" + sigv4.EncodeRFC3986(s.bucket) + "/" + sigv4.EncodePath(key)
}

// ClampExpiry converts d to whole seconds bounded to [1, 604800]
func ClampExpiry(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if secs < MinExpirySeconds {
		return MinExpirySeconds
	}
	if secs > MaxExpirySeconds {
		return MaxExpirySeconds
	}
	return secs
}

// PresignPut returns a PUT URL for key valid for the default expiration
func (s *Signer) PresignPut(key string) (string, error) {
	return s.PresignPutWithExpiry(key, s.defaultExpiration)
}

// PresignPutWithExpiry returns a PUT URL for key valid for expiresIn, clamped
// to the range SigV4 accepts.
//
// Example:
//
//	url, err := signer.PresignPutWithExpiry("listings/9f1c.jpg", 5*time.Minute)
//	// https://<account>.r2.cloudflarestorage.com/<bucket>/listings/9f1c.jpg?X-Amz-Algorithm=...
func (s *Signer) PresignPutWithExpiry(key string, expiresIn time.Duration) (string, error) {
	signed, _, err := s.presign(key, ClampExpiry(expiresIn))
	return signed, err
}

// CreateUpload presigns key and returns the headers the uploader must send.
// size is not part of the signature; the bucket enforces no length.
func (s *Signer) CreateUpload(key, contentType string, size int64) (*Upload, error) {
	signed, expiresAt, err := s.presign(key, ClampExpiry(s.defaultExpiration))
	if err != nil {
		return nil, err
	}
	return &Upload{
		Key:       key,
		URL:       signed,
		Headers:   map[string]string{"Content-Type": contentType},
		Size:      size,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Signer) presign(key string, expires int64) (string, time.Time, error) {
	if err := s.validate(); err != nil {
		return "", time.Time{}, err
	}
	if strings.TrimLeft(key, "/") == "" {
		return "", time.Time{}, fmt.Errorf("presigned: object key is required")
	}
	key = strings.TrimLeft(key, "/")

	now := s.now().UTC()
	amzDate := now.Format(sigv4.TimeFormat)
	scope := sigv4.Scope{Date: now.Format(sigv4.DateFormat), Region: s.region, Service: sigv4.ServiceS3}

	params := s.queryParams(amzDate, scope, expires)
	host := s.Host()
	path := s.ObjectPath(key)
	query := sigv4.CanonicalQuery(params)

	signature := sigv4.Sign(s.secretAccessKey, amzDate, scope, canonicalRequest("PUT", path, query, host))

	signed := s.scheme + "://" + host + path + "?" + query + "&X-Amz-Signature=" + signature
	return signed, now.Add(time.Duration(expires) * time.Second), nil
}

func (s *Signer) queryParams(amzDate string, scope sigv4.Scope, expires int64) map[string]string {
	return map[string]string{
		"X-Amz-Algorithm":     sigv4.Algorithm,
		"X-Amz-Credential":    s.accessKeyID + "/" + scope.String(),
		"X-Amz-Date":          amzDate,
		"X-Amz-Expires":       strconv.FormatInt(expires, 10),
		"X-Amz-SignedHeaders": "host",
		intentParam:           putObjectIntent,
	}
}

// canonicalRequest signs only the host header; the body is UNSIGNED-PAYLOAD.
func canonicalRequest(method, path, query, host string) string {
	return strings.Join([]string{
		method,
		path,
		query,
		"host:" + host + "\n",
		"host",
		sigv4.UnsignedPayload,
	}, "\n")
}
