package rpc

import (
	"context"
	"fmt"
	"path"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/auth/authctx"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/observe"
)

// GateInterceptor is the RPC twin of the HTTP gate: it extracts a
// credential from incoming metadata, verifies the token, evaluates the
// method's rule, and stores the principal in the handler context. Methods
// absent from the rule map pass through unauthenticated.
type GateInterceptor struct {
	codec   *auth.Codec
	rules   map[string]auth.Rule
	log     *logger.Logger
	metrics *observe.Metrics
}

// GateInterceptorOption configures optional collaborators.
type GateInterceptorOption func(*GateInterceptor)

// WithMetrics records a gate decision metric per evaluation.
func WithMetrics(m *observe.Metrics) GateInterceptorOption {
	return func(g *GateInterceptor) { g.metrics = m }
}

// NewGateInterceptor creates the RPC authentication gate. Rules are keyed
// by full method name, e.g. "/busline.v1.SeatService/GetSeats".
func NewGateInterceptor(codec *auth.Codec, rules map[string]auth.Rule, log *logger.Logger, opts ...GateInterceptorOption) *GateInterceptor {
	g := &GateInterceptor{
		codec: codec,
		rules: rules,
		log:   log.WithComponent("rpc.gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Unary returns the interceptor function.
func (g *GateInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		rule, guarded := g.rules[info.FullMethod]
		if !guarded {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		token, source := auth.Extract(auth.Metadata(md))
		if source == auth.SourceNone {
			g.record(ctx, observe.DecisionUnauthorized)
			return nil, status.Error(codes.Unauthenticated, "Authentication required.")
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			g.log.Debug("Token rejected", map[string]interface{}{
				logger.FieldError:  err.Error(),
				logger.FieldMethod: info.FullMethod,
			})
			g.record(ctx, observe.DecisionUnauthorized)
			return nil, status.Error(codes.Unauthenticated, "Invalid authentication token.")
		}

		if err := rule.Evaluate(claims); err != nil {
			g.log.Debug("Rule denied", map[string]interface{}{
				logger.FieldSubject: claims.Subject,
				logger.FieldMethod:  info.FullMethod,
				logger.FieldError:   err.Error(),
			})
			g.record(ctx, observe.DecisionForbidden)
			return nil, status.Error(codes.PermissionDenied, "You don't have permission to perform this action.")
		}

		g.record(ctx, observe.DecisionAllowed)
		ctx = authctx.Set(ctx, &authctx.Principal{Claims: claims, Source: source})
		return handler(ctx, req)
	}
}

func (g *GateInterceptor) record(ctx context.Context, outcome string) {
	if g.metrics != nil {
		g.metrics.RecordAuthDecision(ctx, "rpc", outcome)
	}
}

// LoggingInterceptor logs each RPC with method, duration, and status.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	log = log.WithComponent("rpc")
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		fields := map[string]interface{}{
			"service":            path.Dir(info.FullMethod)[1:],
			logger.FieldMethod:   path.Base(info.FullMethod),
			logger.FieldDuration: duration.Milliseconds(),
		}

		if err != nil {
			st := status.Convert(err)
			fields[logger.FieldStatus] = st.Code().String()
			fields[logger.FieldError] = st.Message()
			log.Warn("RPC completed", fields)
		} else {
			fields[logger.FieldStatus] = codes.OK.String()
			log.Debug("RPC completed", fields)
		}

		return resp, err
	}
}

// RecoveryInterceptor converts handler panics into internal errors.
func RecoveryInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	log = log.WithComponent("rpc")
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered", map[string]interface{}{
					"panic":            fmt.Sprintf("%v", r),
					"stack":            string(debug.Stack()),
					logger.FieldMethod: info.FullMethod,
				})
				err = status.Error(codes.Internal, "Internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
