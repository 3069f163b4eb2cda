package urlstrategy

import (
	"strings"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// ImageResolver maps the image values stored on a listing to displayable URLs.
// Stored values are usually object keys, but older rows may hold absolute
// URLs, data URLs or paths into the site's public folder.
type ImageResolver struct {
	strategy URLStrategy
}

func NewImageResolver(strategy URLStrategy) *ImageResolver {
	return &ImageResolver{strategy: strategy}
}

// Resolve returns the URL for a single stored value; empty input yields "".
func (r *ImageResolver) Resolve(value string) (string, error) {
	switch {
	case value == "":
		return "", nil
	case strings.HasPrefix(value, "./"):
		return "/" + strings.TrimPrefix(value, "./"), nil
	case strings.HasPrefix(value, "../"):
		return "/" + strings.TrimPrefix(value, "../"), nil
	case strings.HasPrefix(value, "public/"):
		return "/" + strings.TrimPrefix(value, "public/"), nil
	case giveaway.IsExternalImage(value):
		return value, nil
	}
	return r.strategy.PublicURL(value)
}

// ResolveAll resolves every value, skipping empties. A listing with nothing
// left shows giveaway.DefaultImage.
func (r *ImageResolver) ResolveAll(values []string) ([]string, error) {
	urls := make([]string, 0, len(values))
	for _, v := range values {
		u, err := r.Resolve(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		if u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return []string{giveaway.DefaultImage}, nil
	}
	return urls, nil
}
