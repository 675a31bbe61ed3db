package auth

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Verification failures. The gates collapse all of these into a single
// unauthenticated response; the distinct values exist for logging and tests.
var (
	// ErrTokenMalformed indicates the token could not be parsed.
	ErrTokenMalformed = errors.New("auth: malformed token")
	// ErrSignatureInvalid indicates the signature does not match the payload.
	ErrSignatureInvalid = errors.New("auth: invalid token signature")
	// ErrTokenExpired indicates a structurally valid, correctly signed token
	// whose expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid covers any other verification failure.
	ErrTokenInvalid = errors.New("auth: invalid token")
	// ErrSigningFailed indicates token encoding failed.
	ErrSigningFailed = errors.New("auth: token signing failed")
)

// Codec signs Claims into token strings and verifies token strings back
// into Claims using a single shared HS256 secret. It holds no mutable
// state and is shared across all concurrent requests.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the codec's time source. Used by tests to pin
// verification time at expiry boundaries.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec creates a Codec for the given shared secret.
func NewCodec(secret string, opts ...CodecOption) *Codec {
	c := &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign serializes claims into a signed compact token. The expiry is part of
// the signed payload, so tampering with it invalidates the signature.
func (c *Codec) Sign(claims *Claims) (string, error) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return signed, nil
}

// Verify validates the signature over the payload and returns the embedded
// Claims. The signature is checked before any claim is trusted, including
// expiry; the current time is read exactly once per call so every
// comparison within one verification sees the same instant. No clock-skew
// leeway is applied: a token is expired at exactly now >= exp.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	now := c.now()

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(func() time.Time { return now }),
		gojwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (c *Codec) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, ErrSignatureInvalid
	}
	return c.secret, nil
}

// mapParseError translates jwt library errors onto the codec's taxonomy.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
