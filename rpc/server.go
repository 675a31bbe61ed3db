package rpc

import (
	"google.golang.org/grpc"

	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/seats"
)

// DefaultRules maps guarded RPC methods to their rules. Login and debug
// issuance are unauthenticated entry points; the SeatService mirrors the
// REST seat rules exactly.
func DefaultRules() map[string]auth.Rule {
	seatWrite := auth.Rule{
		Roles:    []string{seats.RoleAdmin},
		Policies: []string{seats.PolicyWrite},
	}
	return map[string]auth.Rule{
		"/" + AuthServiceName + "/Logout":  {},
		"/" + AuthServiceName + "/Refresh": {},
		"/" + AuthServiceName + "/WhoAmI":  {},

		"/" + SeatServiceName + "/GetSeats":        auth.RequirePolicies(seats.PolicyRead),
		"/" + SeatServiceName + "/GetSeatsByRange": auth.RequirePolicies(seats.PolicyRead),
		"/" + SeatServiceName + "/CreateSeats":     seatWrite,
		"/" + SeatServiceName + "/UpdateSeats":     seatWrite,
		"/" + SeatServiceName + "/DeleteSeats":     seatWrite,
	}
}

// NewServer assembles the gRPC server: JSON codec, interceptor chain
// (recovery outermost, then logging, then the gate), and both services
// registered. The returned server implements http.Handler and mounts on
// the shared h2c port.
func NewServer(gate *GateInterceptor, log *logger.Logger, authSrv AuthServer, seatSrv SeatServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ForceServerCodec(Codec()),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(log),
			LoggingInterceptor(log),
			gate.Unary(),
		),
	)

	srv := grpc.NewServer(opts...)
	srv.RegisterService(&AuthServiceDesc, authSrv)
	srv.RegisterService(&SeatServiceDesc, seatSrv)
	return srv
}
