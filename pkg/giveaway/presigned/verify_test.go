package presigned

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRequest_RoundTrip(t *testing.T) {
	s := newTestSigner(t)

	signed, err := s.PresignPut("listings/abc.jpg")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, signed, strings.NewReader("bytes"))
	assert.NoError(t, s.VerifyRequest(req))
}

func TestVerifyRequest_Rejections(t *testing.T) {
	s := newTestSigner(t)

	signed, err := s.PresignPut("listings/abc.jpg")
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(string) string
		method  string
		wantErr error
	}{
		{
			name:    "tampered signature",
			mutate:  func(u string) string { return u[:len(u)-4] + "0000" },
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "different key",
			mutate:  func(u string) string { return strings.Replace(u, "abc.jpg", "evil.jpg", 1) },
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "different method",
			mutate:  func(u string) string { return u },
			method:  http.MethodPost,
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "extended expiry",
			mutate:  func(u string) string { return strings.Replace(u, "X-Amz-Expires=600", "X-Amz-Expires=6000", 1) },
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "missing signature",
			mutate:  func(u string) string { return u[:strings.Index(u, "&X-Amz-Signature=")] },
			wantErr: ErrMissingSignature,
		},
		{
			name:    "unknown access key",
			mutate:  func(u string) string { return strings.Replace(u, "AKIDEXAMPLE", "AKIDOTHER", 1) },
			wantErr: ErrInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodPut
			}
			req := httptest.NewRequest(method, tt.mutate(signed), nil)

			err := s.VerifyRequest(req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsAuthError(err))
		})
	}
}

func TestVerifyRequest_Expired(t *testing.T) {
	s := newTestSigner(t)

	signed, err := s.PresignPutWithExpiry("listings/abc.jpg", time.Minute)
	require.NoError(t, err)

	later := newTestSigner(t, WithClock(func() time.Time { return fixedTime.Add(2 * time.Minute) }))
	req := httptest.NewRequest(http.MethodPut, signed, nil)
	assert.ErrorIs(t, later.VerifyRequest(req), ErrExpired)

	stillValid := newTestSigner(t, WithClock(func() time.Time { return fixedTime.Add(30 * time.Second) }))
	assert.NoError(t, stillValid.VerifyRequest(httptest.NewRequest(http.MethodPut, signed, nil)))
}
