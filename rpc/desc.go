package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Full service names, also the mount prefixes on the shared ServeMux.
const (
	AuthServiceName = "busline.v1.AuthService"
	SeatServiceName = "busline.v1.SeatService"
)

// The descriptors are maintained by hand: messages are plain structs
// carried by the JSON codec, so there is no generated protobuf code.

// AuthServiceDesc describes busline.v1.AuthService.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "LoginCookie", Handler: loginCookieHandler},
		{MethodName: "LoginJWT", Handler: loginJWTHandler},
		{MethodName: "Logout", Handler: logoutHandler},
		{MethodName: "Refresh", Handler: refreshHandler},
		{MethodName: "WhoAmI", Handler: whoAmIHandler},
		{MethodName: "DebugIssue", Handler: debugIssueHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// SeatServiceDesc describes busline.v1.SeatService.
var SeatServiceDesc = grpc.ServiceDesc{
	ServiceName: SeatServiceName,
	HandlerType: (*SeatServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSeats", Handler: getSeatsHandler},
		{MethodName: "GetSeatsByRange", Handler: getSeatsByRangeHandler},
		{MethodName: "CreateSeats", Handler: createSeatsHandler},
		{MethodName: "UpdateSeats", Handler: updateSeatsHandler},
		{MethodName: "DeleteSeats", Handler: deleteSeatsHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts one typed method to the grpc.MethodDesc handler shape.
func unary[Req any, Resp any](
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
	fullMethod string,
	call func(ctx context.Context, req *Req) (*Resp, error),
) (interface{}, error) {
	in := new(Req)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return call(ctx, req.(*Req))
	}
	return interceptor(ctx, in, info, handler)
}

func loginCookieHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+AuthServiceName+"/LoginCookie", srv.(AuthServer).LoginCookie)
}

func loginJWTHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+AuthServiceName+"/LoginJWT", srv.(AuthServer).LoginJWT)
}

func logoutHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+AuthServiceName+"/Logout", srv.(AuthServer).Logout)
}

func refreshHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+AuthServiceName+"/Refresh", srv.(AuthServer).Refresh)
}

func whoAmIHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+AuthServiceName+"/WhoAmI", srv.(AuthServer).WhoAmI)
}

func debugIssueHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+AuthServiceName+"/DebugIssue", srv.(AuthServer).DebugIssue)
}

func getSeatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+SeatServiceName+"/GetSeats", srv.(SeatServer).GetSeats)
}

func getSeatsByRangeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+SeatServiceName+"/GetSeatsByRange", srv.(SeatServer).GetSeatsByRange)
}

func createSeatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+SeatServiceName+"/CreateSeats", srv.(SeatServer).CreateSeats)
}

func updateSeatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+SeatServiceName+"/UpdateSeats", srv.(SeatServer).UpdateSeats)
}

func deleteSeatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(srv, ctx, dec, interceptor,
		"/"+SeatServiceName+"/DeleteSeats", srv.(SeatServer).DeleteSeats)
}
