// Package sigv4 implements the pieces of AWS Signature Version 4 needed to
// presign requests against S3-compatible object stores: signing-key
// derivation, string-to-sign construction and RFC 3986 canonical encoding.
//
// Everything here is pure: no clock reads, no I/O.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Algorithm is the SigV4 algorithm identifier.
	Algorithm = "AWS4-HMAC-SHA256"

	// UnsignedPayload is the payload hash sentinel for bodies streamed by the client.
	UnsignedPayload = "UNSIGNED-PAYLOAD"

	// ServiceS3 is the signing service name for object stores.
	ServiceS3 = "s3"

	// TimeFormat is the X-Amz-Date layout.
	TimeFormat = "20060102T150405Z"

	// DateFormat is the credential-scope date layout.
	DateFormat = "20060102"

	terminator = "aws4_request"
)

// Scope is the credential scope a signature is valid for.
type Scope struct {
	Date    string // YYYYMMDD
	Region  string
	Service string
}

// String renders the scope as date/region/service/aws4_request.
func (s Scope) String() string {
	return s.Date + "/" + s.Region + "/" + s.Service + "/" + terminator
}

// DeriveSigningKey derives the scoped signing key from the secret access key.
func DeriveSigningKey(secret, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, terminator)
}

// StringToSign builds the string that gets signed for a canonical request.
func StringToSign(amzDate string, scope Scope, canonicalRequest string) string {
	return strings.Join([]string{
		Algorithm,
		amzDate,
		scope.String(),
		HashHex(canonicalRequest),
	}, "\n")
}

// Sign returns the lowercase hex signature of canonicalRequest.
func Sign(secret, amzDate string, scope Scope, canonicalRequest string) string {
	key := DeriveSigningKey(secret, scope.Date, scope.Region, scope.Service)
	return hex.EncodeToString(hmacSHA256(key, StringToSign(amzDate, scope, canonicalRequest)))
}

// HashHex returns hex(SHA256(data)).
func HashHex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
