// Package urlstrategy turns stored object keys into URLs a browser can load.
package urlstrategy

// URLStrategy defines the interface for public URL generation strategies
type URLStrategy interface {
	// PublicURL returns the publicly dereferenceable URL of an object key
	PublicURL(key string) (string, error)
}
