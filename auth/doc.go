// Package auth implements the transport-independent authentication and
// authorization core of the gateway: the claims model, the HS256 token
// codec, credential extraction from header bags, rule evaluation, and
// token issuance.
//
// The HTTP middleware and the gRPC interceptor are thin adapters over the
// same three calls:
//
//	token, src := auth.Extract(bag)
//	claims, err := codec.Verify(token)
//	err = rule.Evaluate(claims)
//
// so a request is authorized identically no matter which transport it
// arrived on. All types in this package are immutable after construction
// and safe for concurrent use.
package auth
