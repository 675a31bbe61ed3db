package auth

import (
	"net/http"
	"time"

	apperrors "github.com/busline/gateway/errors"
)

// EnvProduction is the environment value that disables debug issuance.
const EnvProduction = "production"

// Issuer builds Claims for authenticated subjects and signs them into
// tokens. It holds only immutable configuration (codec, default TTL,
// environment) and is shared across all concurrent requests.
type Issuer struct {
	codec       *Codec
	ttl         time.Duration
	environment string
	now         func() time.Time
}

// NewIssuer creates an Issuer from validated auth configuration.
func NewIssuer(cfg *Config, opts ...CodecOption) *Issuer {
	return &Issuer{
		codec:       NewCodec(cfg.Secret, opts...),
		ttl:         cfg.TTL,
		environment: cfg.Environment,
		now:         time.Now,
	}
}

// Codec returns the issuer's token codec, shared with the gates so issued
// and verified tokens always use the same secret.
func (i *Issuer) Codec() *Codec { return i.codec }

// TTL returns the configured default token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue builds Claims for a freshly authenticated subject and signs them.
// It is a pure function of its inputs, the current time, and the secret.
func (i *Issuer) Issue(subject string, roles, policies []string, ttl time.Duration) (string, *Claims, error) {
	if ttl <= 0 {
		return "", nil, apperrors.InvalidInput("ttl", "must be positive")
	}

	claims := NewClaims(subject, roles, policies, ttl, i.now())
	token, err := i.codec.Sign(claims)
	if err != nil {
		return "", nil, apperrors.Internal(err)
	}
	return token, claims, nil
}

// Refresh re-issues a token copying subject, roles, and policies from
// already-verified claims with a fresh expiry. The inputs must come from a
// Claims value returned by Codec.Verify in the current request; refresh
// never trusts caller-supplied identity.
func (i *Issuer) Refresh(claims *Claims, ttl time.Duration) (string, *Claims, error) {
	return i.Issue(claims.Subject, claims.Roles, claims.Policies, ttl)
}

// DebugIssue issues a token with caller-chosen subject, roles, and
// policies, bypassing credential validation. In production it fails with
// the same not-found shape as an unknown route, so the path's existence is
// not discoverable through error differences.
func (i *Issuer) DebugIssue(subject string, roles, policies []string) (string, *Claims, error) {
	if i.environment == EnvProduction {
		return "", nil, apperrors.NotFound("route", "")
	}
	return i.Issue(subject, roles, policies, i.ttl)
}

// Cookie returns the Set-Cookie descriptor delivering a token to a browser
// client. Secure is off by default; deployments terminate TLS upstream and
// may override on the returned value.
func (i *Issuer) Cookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie returns the descriptor that removes the auth cookie on
// logout: same name, path, and flags, empty value, already expired.
func (i *Issuer) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
