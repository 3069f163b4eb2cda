package presigned

import "time"

// Option is a functional option for configuring a Signer
type Option func(*Signer)

// WithAccountID sets the object-store account id. The host becomes
// <accountID>.r2.cloudflarestorage.com unless WithEndpoint overrides it.
func WithAccountID(accountID string) Option {
	return func(s *Signer) {
		s.accountID = accountID
	}
}

// WithEndpoint overrides the host presigned URLs point at, e.g. "localhost:9000"
// for MinIO or the built-in development store.
func WithEndpoint(host string) Option {
	return func(s *Signer) {
		s.endpoint = host
	}
}

// WithScheme sets the URL scheme (default "https")
func WithScheme(scheme string) Option {
	return func(s *Signer) {
		s.scheme = scheme
	}
}

// WithBucket sets the bucket objects are uploaded into
func WithBucket(bucket string) Option {
	return func(s *Signer) {
		s.bucket = bucket
	}
}

// WithCredentials sets the access key pair used for signing
func WithCredentials(accessKeyID, secretAccessKey string) Option {
	return func(s *Signer) {
		s.accessKeyID = accessKeyID
		s.secretAccessKey = secretAccessKey
	}
}

// WithRegion sets the SigV4 region. R2 expects "auto".
func WithRegion(region string) Option {
	return func(s *Signer) {
		s.region = region
	}
}

// WithDefaultExpiration sets the validity used by PresignPut.
// Default is 10 minutes if not specified.
func WithDefaultExpiration(d time.Duration) Option {
	return func(s *Signer) {
		s.defaultExpiration = d
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}
