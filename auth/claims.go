package auth

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the authenticated-identity payload embedded in every token.
// The wire format is {sub, exp, roles, policies}; registered claims carry
// subject and expiry, so the JSON layout stays compatible with tokens
// issued by earlier deployments.
type Claims struct {
	Roles    []string `json:"roles"`
	Policies []string `json:"policies"`
	gojwt.RegisteredClaims
}

// NewClaims builds a Claims value for subject with expiry now+ttl.
// Claims are immutable once constructed; Refresh builds a new value rather
// than extending an existing one.
func NewClaims(subject string, roles, policies []string, ttl time.Duration, now time.Time) *Claims {
	return &Claims{
		Roles:    roles,
		Policies: policies,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// HasRole reports whether the claims carry the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPolicy reports whether the claims carry the given policy.
func (c *Claims) HasPolicy(policy string) bool {
	for _, p := range c.Policies {
		if p == policy {
			return true
		}
	}
	return false
}
