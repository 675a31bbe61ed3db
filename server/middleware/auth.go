package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/auth/authctx"
	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/observe"
)

// Gate guards HTTP routes: it extracts a credential, verifies the token,
// evaluates the route's rule, and stores the resulting principal in the
// request context. Both transports share the same underlying steps, so a
// request is accepted over HTTP exactly when it would be accepted over RPC.
type Gate struct {
	codec   *auth.Codec
	log     *logger.Logger
	metrics *observe.Metrics
}

// GateOption configures optional gate collaborators.
type GateOption func(*Gate)

// WithMetrics records a gate decision metric per evaluation.
func WithMetrics(m *observe.Metrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

// NewGate creates the HTTP authentication gate.
func NewGate(codec *auth.Codec, log *logger.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		codec: codec,
		log:   log.WithComponent("gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate returns a Gin middleware enforcing the given rule. A request
// without a credential or with a failing token gets 401; a valid token whose
// claims do not satisfy the rule gets 403. Token failures share one
// response body so callers cannot distinguish expired from forged tokens.
func (g *Gate) Authenticate(rule auth.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, source := auth.Extract(auth.HTTPHeaders(c.Request.Header))
		if source == auth.SourceNone {
			g.deny(c, observe.DecisionUnauthorized)
			appErr := apperrors.Unauthorized("")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			g.log.Debug("Token rejected", map[string]interface{}{
				logger.FieldError: err.Error(),
				"source":          source.String(),
			})
			g.deny(c, observe.DecisionUnauthorized)
			appErr := apperrors.InvalidToken()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		if err := rule.Evaluate(claims); err != nil {
			g.log.Debug("Rule denied", map[string]interface{}{
				logger.FieldSubject: claims.Subject,
				logger.FieldError:   err.Error(),
			})
			g.deny(c, observe.DecisionForbidden)
			appErr := apperrors.Forbidden("")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		if g.metrics != nil {
			g.metrics.RecordAuthDecision(ctx, "http", observe.DecisionAllowed)
		}
		c.Request = c.Request.WithContext(authctx.Set(ctx, &authctx.Principal{
			Claims: claims,
			Source: source,
		}))
		c.Next()
	}
}

func (g *Gate) deny(c *gin.Context, outcome string) {
	if g.metrics != nil {
		g.metrics.RecordAuthDecision(c.Request.Context(), "http", outcome)
	}
}
