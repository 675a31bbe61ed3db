// Package validation provides input validation for gateway handlers.
//
// Struct tag validation covers request payloads shared between transports:
//
//	type LoginRequest struct {
//	    Username string `json:"username" validate:"required,min=1,max=64"`
//	    Password string `json:"password" validate:"required"`
//	}
//	err := validation.Validate(req)
//
// Programmatic validation covers checks that tags cannot express:
//
//	v := validation.New()
//	v.Required("name", name)
//	v.Min("price", price, 0)
//	err := v.Validate()
package validation
