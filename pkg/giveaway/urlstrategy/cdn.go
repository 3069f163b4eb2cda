package urlstrategy

import (
	"strings"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// CDNStrategy serves objects from a public bucket domain or CDN in front of it
type CDNStrategy struct {
	BaseURL string // e.g. "https://images.example.org", no trailing slash
}

// NewCDNStrategy creates a CDN URL strategy. Trailing slashes on baseURL are dropped.
func NewCDNStrategy(baseURL string) *CDNStrategy {
	return &CDNStrategy{
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// PublicURL returns BaseURL + "/" + key
func (s *CDNStrategy) PublicURL(key string) (string, error) {
	if s.BaseURL == "" {
		return "", &giveaway.ConfigError{Variable: "R2_PUBLIC_BASE_URL"}
	}
	return s.BaseURL + "/" + key, nil
}
