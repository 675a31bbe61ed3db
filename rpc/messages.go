package rpc

import "github.com/busline/gateway/seats"

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// LogoutRequest has no fields; the credential travels in metadata.
type LogoutRequest struct{}

// RefreshRequest has no fields; the credential travels in metadata.
type RefreshRequest struct{}

// WhoAmIRequest has no fields; the credential travels in metadata.
type WhoAmIRequest struct{}

// DebugIssueRequest mints a token with caller-chosen claims. Mode selects
// delivery: "jwt" returns the token in the body, "cookie" sends it as
// set-cookie response metadata.
type DebugIssueRequest struct {
	Mode     string   `json:"mode" validate:"required,oneof=jwt cookie"`
	Subject  string   `json:"subject" validate:"required,max=64"`
	Roles    []string `json:"roles"`
	Policies []string `json:"policies"`
}

// StatusResponse acknowledges an operation whose result travels in metadata.
type StatusResponse struct {
	Status string `json:"status"`
}

// TokenResponse returns an issued token.
type TokenResponse struct {
	Status    string `json:"status"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// WhoAmIResponse echoes the verified identity behind the request.
type WhoAmIResponse struct {
	Subject   string   `json:"subject"`
	Roles     []string `json:"roles"`
	Policies  []string `json:"policies"`
	Source    string   `json:"source"`
	ExpiresAt int64    `json:"expires_at"`
}

// GetSeatsRequest asks for a page of seats.
type GetSeatsRequest struct {
	Offset int32 `json:"offset"`
	Size   int32 `json:"size"`
}

// GetSeatsResponse is a page of seats with the total live count.
type GetSeatsResponse struct {
	Offset int32        `json:"offset"`
	Size   int32        `json:"size"`
	Total  int64        `json:"total"`
	Data   []seats.Seat `json:"data"`
}

// GetSeatsByRangeRequest filters seats by IDs and names.
type GetSeatsByRangeRequest struct {
	SeatIDs []int32  `json:"seat_ids"`
	Names   []string `json:"names"`
}

// SeatListResponse carries seats without pagination.
type SeatListResponse struct {
	Data []seats.Seat `json:"data"`
}

// CreateSeatsRequest is the bulk seat creation payload.
type CreateSeatsRequest struct {
	Seats []seats.CreateInput `json:"seats" validate:"required,min=1,dive"`
}

// UpdateSeatsRequest is the bulk seat update payload.
type UpdateSeatsRequest struct {
	Seats []seats.UpdateInput `json:"seats" validate:"required,min=1,dive"`
}

// DeleteSeatsRequest names the seats to soft-delete.
type DeleteSeatsRequest struct {
	SeatIDs []int32 `json:"seat_ids" validate:"required,min=1"`
}

// DeleteSeatsResponse reports how many rows changed.
type DeleteSeatsResponse struct {
	Deleted int64 `json:"deleted"`
}
