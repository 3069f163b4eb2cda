package objectkey

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

var uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}`

func TestRandomGenerator(t *testing.T) {
	gen := NewRandomGenerator()

	tests := []struct {
		name    string
		prefix  string
		mime    string
		pattern string
	}{
		{"png without prefix", "", "image/png", `^` + uuidPattern + `\.png$`},
		{"webp without prefix", "", "image/webp", `^` + uuidPattern + `\.webp$`},
		{"jpeg", "", "image/jpeg", `^` + uuidPattern + `\.jpg$`},
		{"jpg alias", "", "image/jpg", `^` + uuidPattern + `\.jpg$`},
		{"avatars prefix", "avatars", "image/png", `^avatars/` + uuidPattern + `\.png$`},
		{"trailing slashes stripped", "listings/2024//", "image/jpeg", `^listings/2024/` + uuidPattern + `\.jpg$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := gen.GenerateKey(tt.prefix, tt.mime)
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), key)
		})
	}
}

func TestRandomGenerator_FreshKeys(t *testing.T) {
	gen := NewRandomGenerator()

	first, err := gen.GenerateKey("", "image/png")
	require.NoError(t, err)
	second, err := gen.GenerateKey("", "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 36+len(".png"))
}

func TestRandomGenerator_UnsupportedType(t *testing.T) {
	gen := NewRandomGenerator()

	key, err := gen.GenerateKey("avatars", "image/gif")
	assert.Empty(t, key)
	assert.ErrorIs(t, err, ErrUnsupportedMIMEType)
	assert.False(t, giveaway.IsValidationError(err))
}

func TestExtension(t *testing.T) {
	ext, err := Extension("IMAGE/PNG")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = Extension("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMIMEType)
}

func TestValidatePrefix(t *testing.T) {
	valid := []string{"", "avatars", "listings/2024", "user_1/photos-x", strings.Repeat("a", MaxPrefixLength)}
	for _, p := range valid {
		assert.NoError(t, ValidatePrefix(p), p)
	}

	invalid := []string{"avatars/../../etc", "a.b", "has space", "emoji☃", strings.Repeat("a", MaxPrefixLength+1)}
	for _, p := range invalid {
		err := ValidatePrefix(p)
		assert.True(t, giveaway.IsValidationError(err), p)
	}
}

func TestCustomFuncGenerator(t *testing.T) {
	gen := NewCustomFuncGenerator(func(prefix, mimeType string) (string, error) {
		ext, err := Extension(mimeType)
		if err != nil {
			return "", err
		}
		return Join(prefix, "fixed"+ext), nil
	})

	key, err := gen.GenerateKey("p/", "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "p/fixed.webp", key)
}
