package sigv4

import (
	"sort"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodeRFC3986 percent-encodes everything except the unreserved set A-Z a-z 0-9 - . _ ~
func EncodeRFC3986(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// EncodePath encodes each slash-separated segment independently, keeping the slashes.
func EncodePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = EncodeRFC3986(seg)
	}
	return strings.Join(segments, "/")
}

// CanonicalQuery encodes params as a query string sorted by encoded key.
func CanonicalQuery(params map[string]string) string {
	encoded := make(map[string]string, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		ek := EncodeRFC3986(k)
		encoded[ek] = EncodeRFC3986(v)
		keys = append(keys, ek)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encoded[k])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.' || c == '~'
}
