// Package api implements the gateway's REST handlers on Gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/auth/authctx"
	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/server"
	"github.com/busline/gateway/validation"
)

// LoginRequest carries login credentials for both login modes.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the body of token-mode issuance responses.
type TokenResponse struct {
	Status    string `json:"status"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// WhoAmIResponse echoes the verified identity behind the current request.
type WhoAmIResponse struct {
	Subject   string   `json:"subject"`
	Roles     []string `json:"roles"`
	Policies  []string `json:"policies"`
	Source    string   `json:"source"`
	ExpiresAt int64    `json:"expires_at"`
}

// AuthHandler serves the authentication routes.
type AuthHandler struct {
	issuer *auth.Issuer
	users  *auth.UserStore
	log    *logger.Logger
}

// NewAuthHandler creates the authentication handler.
func NewAuthHandler(issuer *auth.Issuer, users *auth.UserStore, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		issuer: issuer,
		users:  users,
		log:    log.WithComponent("api.auth"),
	}
}

// login validates credentials and issues a token with the user's grants.
func (h *AuthHandler) login(c *gin.Context) (string, *auth.Claims, bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "must be valid JSON"))
		return "", nil, false
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return "", nil, false
	}

	grant, err := h.users.Verify(req.Username, req.Password)
	if err != nil {
		h.log.Debug("Login rejected", map[string]interface{}{
			logger.FieldSubject: req.Username,
		})
		server.RespondWithError(c, apperrors.Unauthorized("Invalid username or password."))
		return "", nil, false
	}

	token, claims, err := h.issuer.Issue(req.Username, grant.Roles, grant.Policies, h.issuer.TTL())
	if err != nil {
		server.RespondWithError(c, err)
		return "", nil, false
	}

	h.log.Info("Login succeeded", map[string]interface{}{
		logger.FieldSubject: req.Username,
	})
	return token, claims, true
}

// LoginCookie issues a token delivered as an HttpOnly cookie.
func (h *AuthHandler) LoginCookie(c *gin.Context) {
	token, claims, ok := h.login(c)
	if !ok {
		return
	}

	http.SetCookie(c.Writer, h.issuer.Cookie(token, h.issuer.TTL()))
	server.RespondOK(c, TokenResponse{
		Status:    "ok",
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}

// LoginJWT issues a token returned in the response body.
func (h *AuthHandler) LoginJWT(c *gin.Context) {
	token, claims, ok := h.login(c)
	if !ok {
		return
	}

	server.RespondOK(c, TokenResponse{
		Status:    "ok",
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}

// Logout clears the auth cookie. It refuses bearer-sourced credentials:
// there is no server-side session to end, so "logging out" a bearer token
// would be a silent no-op the client could mistake for revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	p := authctx.MustGet(c.Request.Context())

	if p.Source == auth.SourceBearer {
		server.RespondWithError(c, apperrors.InvalidInput(
			"credential", "bearer tokens cannot be logged out; discard the token instead"))
		return
	}

	http.SetCookie(c.Writer, h.issuer.ClearCookie())
	server.RespondOK(c, TokenResponse{Status: "ok"})
}

// Refresh re-issues the caller's token with a fresh expiry, delivered the
// same way the original credential arrived.
func (h *AuthHandler) Refresh(c *gin.Context) {
	p := authctx.MustGet(c.Request.Context())

	token, claims, err := h.issuer.Refresh(p.Claims, h.issuer.TTL())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	resp := TokenResponse{Status: "ok", ExpiresAt: claims.ExpiresAt.Unix()}
	if p.Source == auth.SourceCookie {
		http.SetCookie(c.Writer, h.issuer.Cookie(token, h.issuer.TTL()))
	} else {
		resp.Token = token
	}
	server.RespondOK(c, resp)
}

// Authorize reports the verified identity of the current request.
func (h *AuthHandler) Authorize(c *gin.Context) {
	p := authctx.MustGet(c.Request.Context())

	server.RespondOK(c, WhoAmIResponse{
		Subject:   p.Claims.Subject,
		Roles:     p.Claims.Roles,
		Policies:  p.Claims.Policies,
		Source:    p.Source.String(),
		ExpiresAt: p.Claims.ExpiresAt.Unix(),
	})
}

// DebugIssue mints a token with caller-chosen subject, roles, and policies.
// Disabled outside development; in production the route answers exactly
// like an unknown path.
func (h *AuthHandler) DebugIssue(c *gin.Context) {
	mode := c.Param("mode")
	subject := c.Param("id")
	roles := c.QueryArray("role")
	policies := c.QueryArray("policy")

	if mode != "cookie" && mode != "jwt" {
		server.RespondWithError(c, apperrors.NotFound("route", ""))
		return
	}

	token, claims, err := h.issuer.DebugIssue(subject, roles, policies)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	resp := TokenResponse{Status: "ok", ExpiresAt: claims.ExpiresAt.Unix()}
	if mode == "cookie" {
		http.SetCookie(c.Writer, h.issuer.Cookie(token, h.issuer.TTL()))
	} else {
		resp.Token = token
	}
	server.RespondOK(c, resp)
}
