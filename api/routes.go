package api

import (
	"github.com/gin-gonic/gin"

	"github.com/busline/gateway/auth"
	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/seats"
	"github.com/busline/gateway/server"
	"github.com/busline/gateway/server/endpoint"
	"github.com/busline/gateway/server/middleware"
)

// Route rules. The RPC interceptor enforces the same rules for the
// corresponding methods, keyed by full method name.
var (
	// RuleAuthenticated admits any valid token.
	RuleAuthenticated = auth.Rule{}

	// RuleSeatRead guards seat reads.
	RuleSeatRead = auth.RequirePolicies(seats.PolicyRead)

	// RuleSeatWrite guards seat writes: the admin role plus the write policy.
	RuleSeatWrite = auth.Rule{
		Roles:    []string{seats.RoleAdmin},
		Policies: []string{seats.PolicyWrite},
	}
)

// RegisterRoutes wires every REST route with its rule.
func RegisterRoutes(
	r *gin.Engine,
	gate *middleware.Gate,
	authH *AuthHandler,
	seatH *SeatHandler,
	serviceName string,
	pingers map[string]endpoint.Pinger,
) {
	// Unknown paths and methods answer with the same NOT_FOUND envelope the
	// issuer uses to hide the debug route in production, so neither is
	// distinguishable from the other.
	r.NoRoute(notFound)
	r.HandleMethodNotAllowed = true
	r.NoMethod(notFound)

	r.GET("/health", endpoint.Health(serviceName, pingers))
	r.GET("/version", endpoint.Version())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login/cookie", authH.LoginCookie)
		authGroup.POST("/login/jwt", authH.LoginJWT)
		authGroup.GET("/logout", gate.Authenticate(RuleAuthenticated), authH.Logout)
		authGroup.GET("/refresh", gate.Authenticate(RuleAuthenticated), authH.Refresh)
		authGroup.GET("/authorize", gate.Authenticate(RuleAuthenticated), authH.Authorize)
		// The issuer hides this route in production.
		authGroup.GET("/debug/:mode/:id", authH.DebugIssue)
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/seats", gate.Authenticate(RuleSeatRead), seatH.List)
		v1.GET("/seats/range", gate.Authenticate(RuleSeatRead), seatH.GetByRange)
		v1.POST("/seats", gate.Authenticate(RuleSeatWrite), seatH.Create)
		v1.PUT("/seats", gate.Authenticate(RuleSeatWrite), seatH.Update)
		v1.DELETE("/seats", gate.Authenticate(RuleSeatWrite), seatH.Delete)
	}
}

func notFound(c *gin.Context) {
	server.RespondWithError(c, apperrors.NotFound("route", ""))
}
