package presigned

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The AWS SDK signer must produce the same signature for the same request.
func TestPresignPut_MatchesAWSSDKSigner(t *testing.T) {
	s := newTestSigner(t)

	signed, err := s.PresignPut("listings/abc.jpg")
	require.NoError(t, err)
	ours, err := url.Parse(signed)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		"https://acct123.r2.cloudflarestorage.com/giveaway-images/listings/abc.jpg?X-Amz-Expires=600&x-id=PutObject", nil)
	require.NoError(t, err)

	signer := v4.NewSigner(func(o *v4.SignerOptions) {
		o.DisableURIPathEscaping = true
	})
	sdkURI, _, err := signer.PresignHTTP(context.Background(),
		aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret/key+example"},
		req, "UNSIGNED-PAYLOAD", "s3", "auto", fixedTime)
	require.NoError(t, err)

	theirs, err := url.Parse(sdkURI)
	require.NoError(t, err)

	assert.Equal(t, theirs.Query().Get("X-Amz-Credential"), ours.Query().Get("X-Amz-Credential"))
	assert.Equal(t, theirs.Query().Get("X-Amz-SignedHeaders"), ours.Query().Get("X-Amz-SignedHeaders"))
	assert.Equal(t, theirs.Query().Get("X-Amz-Signature"), ours.Query().Get("X-Amz-Signature"))
}
