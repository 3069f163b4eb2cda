package objectkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// MaxPrefixLength bounds the optional folder a batch is uploaded under
const MaxPrefixLength = 64

// ErrUnsupportedMIMEType is returned when no extension is mapped for a type.
// Accepted types are a subset of the mapped ones, so callers treat it as internal.
var ErrUnsupportedMIMEType = errors.New("objectkey: unsupported MIME type")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates a fresh object key for a file of the given MIME type
	GenerateKey(prefix, mimeType string) (string, error)
}

// RandomGenerator names objects <prefix>/<uuid v4><ext>. Keys are unique with
// overwhelming probability; nothing checks the bucket for collisions.
type RandomGenerator struct {
	newID func() string
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{newID: uuid.NewString}
}

func (g *RandomGenerator) GenerateKey(prefix, mimeType string) (string, error) {
	ext, err := Extension(mimeType)
	if err != nil {
		return "", err
	}
	return Join(prefix, g.newID()+ext), nil
}

// CustomFuncGenerator allows users to provide their own key generation function
type CustomFuncGenerator struct {
	GenerateFunc func(prefix, mimeType string) (string, error)
}

func NewCustomFuncGenerator(fn func(prefix, mimeType string) (string, error)) *CustomFuncGenerator {
	return &CustomFuncGenerator{
		GenerateFunc: fn,
	}
}

func (g *CustomFuncGenerator) GenerateKey(prefix, mimeType string) (string, error) {
	return g.GenerateFunc(prefix, mimeType)
}

// Extension maps a declared MIME type to the file extension used in keys
func Extension(mimeType string) (string, error) {
	ext, ok := extensions[strings.ToLower(mimeType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMIMEType, mimeType)
	}
	return ext, nil
}

// Join places name under prefix, dropping trailing slashes from prefix
func Join(prefix, name string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// ValidatePrefix accepts an empty prefix or up to 64 characters of
// letters, digits, '/', '_' and '-'. Dots are rejected so a prefix can
// never climb out of its folder.
func ValidatePrefix(prefix string) error {
	return giveaway.ValidateVar("prefix", prefix, fmt.Sprintf("max=%d,keyprefix", MaxPrefixLength))
}
