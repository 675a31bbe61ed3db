package rpc

import (
	"context"

	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/seats"
	"github.com/busline/gateway/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// SeatServer is the RPC seat inventory surface.
type SeatServer interface {
	GetSeats(ctx context.Context, req *GetSeatsRequest) (*GetSeatsResponse, error)
	GetSeatsByRange(ctx context.Context, req *GetSeatsByRangeRequest) (*SeatListResponse, error)
	CreateSeats(ctx context.Context, req *CreateSeatsRequest) (*SeatListResponse, error)
	UpdateSeats(ctx context.Context, req *UpdateSeatsRequest) (*SeatListResponse, error)
	DeleteSeats(ctx context.Context, req *DeleteSeatsRequest) (*DeleteSeatsResponse, error)
}

// SeatService implements SeatServer on the shared seat service.
type SeatService struct {
	svc seats.Service
	log *logger.Logger
}

// NewSeatService creates the RPC seat service.
func NewSeatService(svc seats.Service, log *logger.Logger) *SeatService {
	return &SeatService{svc: svc, log: log.WithComponent("rpc.seats")}
}

// GetSeats returns a page of seats with the total live count.
func (s *SeatService) GetSeats(ctx context.Context, req *GetSeatsRequest) (*GetSeatsResponse, error) {
	size := req.Size
	if size == 0 {
		size = defaultPageSize
	}

	v := validation.New()
	v.Min("offset", int(req.Offset), 0)
	v.Range("size", int(size), 1, maxPageSize)
	if appErr := v.Validate(); appErr != nil {
		return nil, toStatus(appErr)
	}

	rows, total, err := s.svc.List(ctx, int(req.Offset), int(size))
	if err != nil {
		return nil, toStatus(err)
	}

	return &GetSeatsResponse{
		Offset: req.Offset,
		Size:   size,
		Total:  total,
		Data:   rows,
	}, nil
}

// GetSeatsByRange returns seats matching the given IDs and names.
func (s *SeatService) GetSeatsByRange(ctx context.Context, req *GetSeatsByRangeRequest) (*SeatListResponse, error) {
	rows, err := s.svc.GetByRange(ctx, req.SeatIDs, req.Names)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SeatListResponse{Data: rows}, nil
}

// CreateSeats inserts new seats.
func (s *SeatService) CreateSeats(ctx context.Context, req *CreateSeatsRequest) (*SeatListResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, toStatus(err)
	}

	created, err := s.svc.Create(ctx, req.Seats)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SeatListResponse{Data: created}, nil
}

// UpdateSeats rewrites existing seats.
func (s *SeatService) UpdateSeats(ctx context.Context, req *UpdateSeatsRequest) (*SeatListResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, toStatus(err)
	}

	updated, err := s.svc.Update(ctx, req.Seats)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SeatListResponse{Data: updated}, nil
}

// DeleteSeats soft-deletes seats and reports how many rows changed.
func (s *SeatService) DeleteSeats(ctx context.Context, req *DeleteSeatsRequest) (*DeleteSeatsResponse, error) {
	if err := validation.Validate(req); err != nil {
		return nil, toStatus(err)
	}

	deleted, err := s.svc.Delete(ctx, req.SeatIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DeleteSeatsResponse{Deleted: deleted}, nil
}
