package presigned

import "errors"

// Signature validation errors, returned by VerifyRequest
var (
	// ErrMissingSignature is returned when a SigV4 query parameter is missing
	ErrMissingSignature = errors.New("presigned: missing signature parameter")

	// ErrUnsupportedAlgorithm is returned for anything other than AWS4-HMAC-SHA256
	ErrUnsupportedAlgorithm = errors.New("presigned: unsupported algorithm")

	// ErrInvalidCredential is returned when the credential does not match the signer
	ErrInvalidCredential = errors.New("presigned: invalid credential")

	// ErrInvalidExpiration is returned when X-Amz-Date or X-Amz-Expires cannot be parsed
	ErrInvalidExpiration = errors.New("presigned: invalid expiration")

	// ErrExpired is returned when the presigned URL has expired
	ErrExpired = errors.New("presigned: URL has expired")

	// ErrInvalidSignature is returned when the signature is invalid
	ErrInvalidSignature = errors.New("presigned: invalid signature")
)

// IsAuthError returns true if the error is a signature validation error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrUnsupportedAlgorithm) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrInvalidExpiration) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrInvalidSignature)
}
