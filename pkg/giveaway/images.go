package giveaway

import "strings"

// DefaultImage is shown for listings without any stored image.
const DefaultImage = "/window.svg"

// IsExternalImage reports whether an image reference is already a URL or a
// site-local path rather than an object key in the bucket.
func IsExternalImage(v string) bool {
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return true
	case strings.HasPrefix(v, "data:"):
		return true
	case strings.HasPrefix(v, "/"), strings.HasPrefix(v, "./"), strings.HasPrefix(v, "../"):
		return true
	case strings.HasPrefix(v, "public/"):
		return true
	}
	return false
}
