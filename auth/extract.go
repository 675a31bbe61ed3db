package auth

import (
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenCookieName is the cookie key carrying a token credential.
const TokenCookieName = "auth_token"

const bearerPrefix = "Bearer "

// Source identifies where a credential was found in a request.
type Source int

const (
	// SourceNone means no credential was present.
	SourceNone Source = iota
	// SourceBearer means the token came from an Authorization: Bearer header.
	SourceBearer
	// SourceCookie means the token came from the auth_token cookie pair.
	SourceCookie
)

// String returns the source name for logging.
func (s Source) String() string {
	switch s {
	case SourceBearer:
		return "bearer"
	case SourceCookie:
		return "cookie"
	default:
		return "none"
	}
}

// HeaderBag abstracts a transport's header map. HTTP headers and gRPC
// metadata both satisfy it through the adapters below, so extraction logic
// exists exactly once.
type HeaderBag interface {
	// Get returns the first value for the given key, or "" if absent.
	Get(key string) string
}

// Extract locates a candidate token in the given header bag.
// An Authorization entry with the Bearer prefix takes precedence; otherwise
// the cookie header is parsed as semicolon-separated key=value pairs and the
// auth_token value is returned. Extraction never looks anywhere else: the
// body, query string, and all other headers are off limits.
func Extract(bag HeaderBag) (string, Source) {
	if auth := bag.Get("authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, bearerPrefix); ok {
			return token, SourceBearer
		}
	}

	if cookies := bag.Get("cookie"); cookies != "" {
		for _, part := range strings.Split(cookies, ";") {
			pair := strings.TrimSpace(part)
			if value, ok := strings.CutPrefix(pair, TokenCookieName+"="); ok {
				return value, SourceCookie
			}
		}
	}

	return "", SourceNone
}

// httpBag adapts http.Header to HeaderBag.
type httpBag struct{ h http.Header }

func (b httpBag) Get(key string) string { return b.h.Get(key) }

// HTTPHeaders wraps an http.Header for extraction.
func HTTPHeaders(h http.Header) HeaderBag { return httpBag{h: h} }

// mdBag adapts gRPC metadata to HeaderBag.
type mdBag struct{ md metadata.MD }

func (b mdBag) Get(key string) string {
	values := b.md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Metadata wraps gRPC request metadata for extraction.
func Metadata(md metadata.MD) HeaderBag { return mdBag{md: md} }
