// Package server provides the gateway's unified HTTP server: Gin for REST
// routes with HTTP/2 h2c support so cleartext gRPC can share the same port.
//
// The standard middleware stack (recovery, request ID, CORS, request
// logging) is applied at the handler level and therefore covers Gin routes
// and mounted gRPC handlers alike. Authentication is per-route: the Gate in
// server/middleware enforces a rule on each guarded Gin route, mirroring
// the RPC interceptor.
package server
