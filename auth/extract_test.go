package auth

import (
	"net/http"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestExtractHTTPHeaders(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantToken  string
		wantSource Source
	}{
		{
			name:       "bearer token",
			headers:    map[string]string{"Authorization": "Bearer abc123"},
			wantToken:  "abc123",
			wantSource: SourceBearer,
		},
		{
			name:       "cookie token",
			headers:    map[string]string{"Cookie": "auth_token=xyz789"},
			wantToken:  "xyz789",
			wantSource: SourceCookie,
		},
		{
			name:       "bearer wins over cookie",
			headers:    map[string]string{"Authorization": "Bearer abc123", "Cookie": "auth_token=xyz789"},
			wantToken:  "abc123",
			wantSource: SourceBearer,
		},
		{
			name:       "cookie among others",
			headers:    map[string]string{"Cookie": "session=1; auth_token=xyz789; theme=dark"},
			wantToken:  "xyz789",
			wantSource: SourceCookie,
		},
		{
			name:       "cookie with surrounding whitespace",
			headers:    map[string]string{"Cookie": " auth_token=xyz789 ; other=1"},
			wantToken:  "xyz789",
			wantSource: SourceCookie,
		},
		{
			name:       "authorization without bearer prefix",
			headers:    map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			wantToken:  "",
			wantSource: SourceNone,
		},
		{
			name:       "empty bearer token",
			headers:    map[string]string{"Authorization": "Bearer "},
			wantToken:  "",
			wantSource: SourceNone,
		},
		{
			name:       "cookie without auth token",
			headers:    map[string]string{"Cookie": "session=1; theme=dark"},
			wantToken:  "",
			wantSource: SourceNone,
		},
		{
			name:       "no credentials",
			headers:    map[string]string{},
			wantToken:  "",
			wantSource: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			token, source := Extract(HTTPHeaders(h))
			if token != tt.wantToken {
				t.Errorf("token: got %q, want %q", token, tt.wantToken)
			}
			if source != tt.wantSource {
				t.Errorf("source: got %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestExtractMetadata(t *testing.T) {
	md := metadata.Pairs("authorization", "Bearer rpc-token")
	token, source := Extract(Metadata(md))
	if token != "rpc-token" || source != SourceBearer {
		t.Errorf("got (%q, %v), want (rpc-token, SourceBearer)", token, source)
	}

	md = metadata.Pairs("cookie", "auth_token=rpc-cookie")
	token, source = Extract(Metadata(md))
	if token != "rpc-cookie" || source != SourceCookie {
		t.Errorf("got (%q, %v), want (rpc-cookie, SourceCookie)", token, source)
	}

	token, source = Extract(Metadata(metadata.MD{}))
	if token != "" || source != SourceNone {
		t.Errorf("got (%q, %v), want empty", token, source)
	}
}

func TestSourceString(t *testing.T) {
	if SourceBearer.String() != "bearer" || SourceCookie.String() != "cookie" || SourceNone.String() != "none" {
		t.Errorf("unexpected source names: %v %v %v", SourceBearer, SourceCookie, SourceNone)
	}
}
