package sigv4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeRFC3986(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"-._~", "-._~"},
		{"a b", "a%20b"},
		{"a/b", "a%2Fb"},
		{"a+b=c&d", "a%2Bb%3Dc%26d"},
		{"!'()*", "%21%27%28%29%2A"},
		{"é", "%C3%A9"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeRFC3986(tt.in))
		})
	}
}

func TestEncodePath(t *testing.T) {
	assert.Equal(t, "avatars/abc.jpg", EncodePath("avatars/abc.jpg"))
	assert.Equal(t, "a%20b/c%2Bd/e.png", EncodePath("a b/c+d/e.png"))
	assert.Equal(t, "a//b", EncodePath("a//b"))
}

func TestCanonicalQuery(t *testing.T) {
	got := CanonicalQuery(map[string]string{
		"x-id":                "PutObject",
		"X-Amz-SignedHeaders": "host",
		"X-Amz-Credential":    "AKID/20240101/auto/s3/aws4_request",
		"X-Amz-Algorithm":     Algorithm,
	})

	assert.Equal(t,
		"X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Credential=AKID%2F20240101%2Fauto%2Fs3%2Faws4_request&X-Amz-SignedHeaders=host&x-id=PutObject",
		got)
}

func TestCanonicalQuerySortsByKeyNotPair(t *testing.T) {
	got := CanonicalQuery(map[string]string{"a": "2", "a2": "1"})
	assert.Equal(t, "a=2&a2=1", got)
}
