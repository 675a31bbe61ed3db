package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/auth/authctx"
	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/validation"
)

const setCookieKey = "set-cookie"

// AuthServer is the RPC authentication surface. It mirrors the REST auth
// routes method for method; cookie delivery uses set-cookie response
// metadata, which grpc-web and gateway proxies translate to the header.
type AuthServer interface {
	LoginCookie(ctx context.Context, req *LoginRequest) (*StatusResponse, error)
	LoginJWT(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	Logout(ctx context.Context, req *LogoutRequest) (*StatusResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*TokenResponse, error)
	WhoAmI(ctx context.Context, req *WhoAmIRequest) (*WhoAmIResponse, error)
	DebugIssue(ctx context.Context, req *DebugIssueRequest) (*TokenResponse, error)
}

// AuthService implements AuthServer on the shared issuer and user store.
type AuthService struct {
	issuer *auth.Issuer
	users  *auth.UserStore
	log    *logger.Logger
}

// NewAuthService creates the RPC authentication service.
func NewAuthService(issuer *auth.Issuer, users *auth.UserStore, log *logger.Logger) *AuthService {
	return &AuthService{
		issuer: issuer,
		users:  users,
		log:    log.WithComponent("rpc.auth"),
	}
}

func (s *AuthService) login(ctx context.Context, req *LoginRequest) (string, *auth.Claims, error) {
	if err := validation.Validate(req); err != nil {
		return "", nil, toStatus(err)
	}

	grant, err := s.users.Verify(req.Username, req.Password)
	if err != nil {
		s.log.Debug("Login rejected", map[string]interface{}{
			logger.FieldSubject: req.Username,
		})
		return "", nil, toStatus(apperrors.Unauthorized("Invalid username or password."))
	}

	token, claims, err := s.issuer.Issue(req.Username, grant.Roles, grant.Policies, s.issuer.TTL())
	if err != nil {
		return "", nil, toStatus(err)
	}

	s.log.Info("Login succeeded", map[string]interface{}{
		logger.FieldSubject: req.Username,
	})
	return token, claims, nil
}

// LoginCookie issues a token delivered as set-cookie response metadata.
func (s *AuthService) LoginCookie(ctx context.Context, req *LoginRequest) (*StatusResponse, error) {
	token, _, err := s.login(ctx, req)
	if err != nil {
		return nil, err
	}

	cookie := s.issuer.Cookie(token, s.issuer.TTL())
	if err := grpc.SetHeader(ctx, metadata.Pairs(setCookieKey, cookie.String())); err != nil {
		return nil, toStatus(apperrors.Internal(err))
	}
	return &StatusResponse{Status: "ok"}, nil
}

// LoginJWT issues a token returned in the response body.
func (s *AuthService) LoginJWT(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	token, claims, err := s.login(ctx, req)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		Status:    "ok",
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// Logout clears the auth cookie via response metadata. Bearer-sourced
// credentials are refused, matching the REST behavior.
func (s *AuthService) Logout(ctx context.Context, _ *LogoutRequest) (*StatusResponse, error) {
	p, err := authctx.GetOrError(ctx)
	if err != nil {
		return nil, toStatus(apperrors.Unauthorized(""))
	}

	if p.Source == auth.SourceBearer {
		return nil, toStatus(apperrors.InvalidInput(
			"credential", "bearer tokens cannot be logged out; discard the token instead"))
	}

	if err := grpc.SetHeader(ctx, metadata.Pairs(setCookieKey, s.issuer.ClearCookie().String())); err != nil {
		return nil, toStatus(apperrors.Internal(err))
	}
	return &StatusResponse{Status: "ok"}, nil
}

// Refresh re-issues the caller's token, delivered the same way the
// original credential arrived.
func (s *AuthService) Refresh(ctx context.Context, _ *RefreshRequest) (*TokenResponse, error) {
	p, err := authctx.GetOrError(ctx)
	if err != nil {
		return nil, toStatus(apperrors.Unauthorized(""))
	}

	token, claims, err := s.issuer.Refresh(p.Claims, s.issuer.TTL())
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &TokenResponse{Status: "ok", ExpiresAt: claims.ExpiresAt.Unix()}
	if p.Source == auth.SourceCookie {
		cookie := s.issuer.Cookie(token, s.issuer.TTL())
		if err := grpc.SetHeader(ctx, metadata.Pairs(setCookieKey, cookie.String())); err != nil {
			return nil, toStatus(apperrors.Internal(err))
		}
	} else {
		resp.Token = token
	}
	return resp, nil
}

// WhoAmI reports the verified identity of the current request.
func (s *AuthService) WhoAmI(ctx context.Context, _ *WhoAmIRequest) (*WhoAmIResponse, error) {
	p, err := authctx.GetOrError(ctx)
	if err != nil {
		return nil, toStatus(apperrors.Unauthorized(""))
	}

	return &WhoAmIResponse{
		Subject:   p.Claims.Subject,
		Roles:     p.Claims.Roles,
		Policies:  p.Claims.Policies,
		Source:    p.Source.String(),
		ExpiresAt: p.Claims.ExpiresAt.Unix(),
	}, nil
}

// DebugIssue mints a token with caller-chosen claims. Disabled outside
// development; in production it fails like an unknown method.
func (s *AuthService) DebugIssue(ctx context.Context, req *DebugIssueRequest) (*TokenResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, toStatus(err)
	}

	token, claims, err := s.issuer.DebugIssue(req.Subject, req.Roles, req.Policies)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &TokenResponse{Status: "ok", ExpiresAt: claims.ExpiresAt.Unix()}
	if req.Mode == "cookie" {
		cookie := s.issuer.Cookie(token, s.issuer.TTL())
		if err := grpc.SetHeader(ctx, metadata.Pairs(setCookieKey, cookie.String())); err != nil {
			return nil, toStatus(apperrors.Internal(err))
		}
	} else {
		resp.Token = token
	}
	return resp, nil
}
