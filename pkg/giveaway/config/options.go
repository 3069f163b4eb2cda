package config

import (
	"fmt"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase sets the database URL; "memory" selects the in-memory repository
func WithDatabase(url string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseURL = url
		return applyDatabaseURL(c)
	}
}

// WithTokenSecret sets the session token signing secret
func WithTokenSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.TokenSecret = secret
		return nil
	}
}

// WithR2Credentials sets the account and key pair used to sign uploads
func WithR2Credentials(accountID, accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		c.R2.AccountID = accountID
		c.R2.AccessKeyID = accessKeyID
		c.R2.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithR2Bucket sets the bucket and the public base URL objects are served from
func WithR2Bucket(bucket, publicBaseURL string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("bucket cannot be empty")
		}
		c.R2.BucketName = bucket
		c.R2.PublicBaseURL = publicBaseURL
		return nil
	}
}

// WithR2Endpoint points presigned URLs at another S3-compatible host
func WithR2Endpoint(endpoint, scheme string) Option {
	return func(c *ServerConfig) error {
		c.R2.Endpoint = endpoint
		if scheme != "" {
			c.R2.Scheme = scheme
		}
		return nil
	}
}

// WithPresignExpiry sets the presigned URL validity in seconds
func WithPresignExpiry(seconds int) Option {
	return func(c *ServerConfig) error {
		c.R2.PresignExpiry = seconds
		return nil
	}
}

// WithUploadVerification toggles the existence check on listing image keys
func WithUploadVerification(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.R2.VerifyUploads = enabled
		return nil
	}
}

// WithDevBucket makes the server store uploads itself
func WithDevBucket(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.R2.DevBucket = enabled
		return nil
	}
}

// WithUploadLimits replaces the per-batch upload limits
func WithUploadLimits(limits giveaway.UploadLimits) Option {
	return func(c *ServerConfig) error {
		c.Upload = UploadConfig{
			MaxFiles:      limits.MaxFiles,
			MaxFileSize:   limits.MaxFileSize,
			AcceptedTypes: append([]string(nil), limits.AcceptedTypes...),
		}
		return nil
	}
}

// WithObjectStore supplies the object store instead of building one from the R2 settings
func WithObjectStore(store giveaway.ObjectStore) Option {
	return func(c *ServerConfig) error {
		if store == nil {
			return fmt.Errorf("object store cannot be nil")
		}
		c.objectStore = store
		return nil
	}
}
