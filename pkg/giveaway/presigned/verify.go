package presigned

import (
	"crypto/hmac"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-giveaway/pkg/giveaway/sigv4"
)

// maxClockSkew is how far X-Amz-Date may lie in the future
const maxClockSkew = 15 * time.Minute

// VerifyRequest checks that r carries a valid, unexpired SigV4 query
// signature issued with this signer's credentials. It is the object-store
// side of PresignPut and backs the development bucket served by Handlers.
func (s *Signer) VerifyRequest(r *http.Request) error {
	q := r.URL.Query()

	for _, name := range []string{"X-Amz-Algorithm", "X-Amz-Credential", "X-Amz-Date", "X-Amz-Expires", "X-Amz-SignedHeaders", "X-Amz-Signature"} {
		if q.Get(name) == "" {
			return fmt.Errorf("%w: %s", ErrMissingSignature, name)
		}
	}

	if q.Get("X-Amz-Algorithm") != sigv4.Algorithm {
		return ErrUnsupportedAlgorithm
	}

	scope, err := s.parseCredential(q.Get("X-Amz-Credential"))
	if err != nil {
		return err
	}

	amzDate := q.Get("X-Amz-Date")
	signedAt, err := time.Parse(sigv4.TimeFormat, amzDate)
	if err != nil {
		return fmt.Errorf("%w: X-Amz-Date %q", ErrInvalidExpiration, amzDate)
	}
	if signedAt.Format(sigv4.DateFormat) != scope.Date {
		return fmt.Errorf("%w: credential date does not match X-Amz-Date", ErrInvalidCredential)
	}

	expires, err := strconv.ParseInt(q.Get("X-Amz-Expires"), 10, 64)
	if err != nil || expires < MinExpirySeconds || expires > MaxExpirySeconds {
		return fmt.Errorf("%w: X-Amz-Expires %q", ErrInvalidExpiration, q.Get("X-Amz-Expires"))
	}

	now := s.now().UTC()
	if signedAt.Sub(now) > maxClockSkew {
		return fmt.Errorf("%w: X-Amz-Date is in the future", ErrInvalidExpiration)
	}
	if now.After(signedAt.Add(time.Duration(expires) * time.Second)) {
		return ErrExpired
	}

	if q.Get("X-Amz-SignedHeaders") != "host" {
		return fmt.Errorf("%w: only the host header may be signed", ErrInvalidSignature)
	}

	params := make(map[string]string, len(q))
	for k := range q {
		if k == "X-Amz-Signature" {
			continue
		}
		params[k] = q.Get(k)
	}

	canonical := canonicalRequest(r.Method, sigv4.EncodePath(r.URL.Path), sigv4.CanonicalQuery(params), r.Host)
	expected := sigv4.Sign(s.secretAccessKey, amzDate, scope, canonical)

	if !hmac.Equal([]byte(expected), []byte(q.Get("X-Amz-Signature"))) {
		return ErrInvalidSignature
	}
	return nil
}

// parseCredential splits <akid>/<date>/<region>/<service>/aws4_request
func (s *Signer) parseCredential(credential string) (sigv4.Scope, error) {
	parts := strings.Split(credential, "/")
	if len(parts) != 5 || parts[4] != "aws4_request" {
		return sigv4.Scope{}, fmt.Errorf("%w: malformed credential", ErrInvalidCredential)
	}
	if parts[0] != s.accessKeyID {
		return sigv4.Scope{}, fmt.Errorf("%w: unknown access key", ErrInvalidCredential)
	}
	if parts[2] != s.region || parts[3] != sigv4.ServiceS3 {
		return sigv4.Scope{}, fmt.Errorf("%w: scope %s/%s", ErrInvalidCredential, parts[2], parts[3])
	}
	return sigv4.Scope{Date: parts[1], Region: parts[2], Service: parts[3]}, nil
}
