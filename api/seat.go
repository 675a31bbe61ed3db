package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/seats"
	"github.com/busline/gateway/server"
	"github.com/busline/gateway/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

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

// SeatHandler serves the seat inventory routes.
type SeatHandler struct {
	svc seats.Service
	log *logger.Logger
}

// NewSeatHandler creates the seat handler.
func NewSeatHandler(svc seats.Service, log *logger.Logger) *SeatHandler {
	return &SeatHandler{svc: svc, log: log.WithComponent("api.seats")}
}

// List returns a page of seats with pagination metadata.
func (h *SeatHandler) List(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	size, err := queryInt(c, "size", defaultPageSize)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if offset < 0 || size <= 0 || size > maxPageSize {
		server.RespondWithError(c, apperrors.InvalidInput("page", "offset must be >= 0 and 0 < size <= 500"))
		return
	}

	rows, total, err := h.svc.List(c.Request.Context(), offset, size)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	server.RespondOKWithMeta(c, rows, &server.Meta{
		Page:     offset/size + 1,
		PageSize: size,
		Total:    total,
	})
}

// GetByRange returns seats matching the given ids and names.
func (h *SeatHandler) GetByRange(c *gin.Context) {
	ids, err := queryInt32s(c, "id")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	names := c.QueryArray("name")

	rows, err := h.svc.GetByRange(c.Request.Context(), ids, names)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, rows)
}

// Create inserts new seats.
func (h *SeatHandler) Create(c *gin.Context) {
	var req CreateSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req.Seats)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, created)
}

// Update rewrites existing seats.
func (h *SeatHandler) Update(c *gin.Context) {
	var req UpdateSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), req.Seats)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, updated)
}

// Delete soft-deletes seats and reports how many rows changed.
func (h *SeatHandler) Delete(c *gin.Context) {
	var req DeleteSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), req.SeatIDs)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"deleted": deleted})
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(name, "must be an integer")
	}
	return v, nil
}

func queryInt32s(c *gin.Context, name string) ([]int32, error) {
	raw := c.QueryArray(name)
	out := make([]int32, 0, len(raw))
	for _, r := range raw {
		v, err := strconv.ParseInt(r, 10, 32)
		if err != nil {
			return nil, apperrors.InvalidInput(name, "must be an integer")
		}
		out = append(out, int32(v))
	}
	return out, nil
}
