package seats

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/busline/gateway/database"
	apperrors "github.com/busline/gateway/errors"
	"github.com/busline/gateway/logger"
)

// Service is the seat inventory API shared by the HTTP handlers and the
// RPC service.
type Service interface {
	// List returns a page of live seats with their buses, plus the total
	// count of live seats.
	List(ctx context.Context, offset, size int) ([]Seat, int64, error)

	// GetByRange returns live seats matching any of the given IDs and any
	// of the given names. Empty filters are ignored; both empty returns
	// every live seat.
	GetByRange(ctx context.Context, seatIDs []int32, names []string) ([]Seat, error)

	// Create inserts the given seats, assigning sequential IDs. Every
	// referenced bus must exist.
	Create(ctx context.Context, inputs []CreateInput) ([]Seat, error)

	// Update rewrites the given seats. Every seat must exist and be live,
	// and every referenced bus must exist.
	Update(ctx context.Context, inputs []UpdateInput) ([]Seat, error)

	// Delete soft-deletes the given seats and reports how many rows
	// changed. Already-deleted and unknown IDs are skipped silently.
	Delete(ctx context.Context, seatIDs []int32) (int64, error)
}

type service struct {
	db  *database.DB
	log *logger.Logger
}

// NewService creates the GORM-backed seat service.
func NewService(db *database.DB, log *logger.Logger) Service {
	return &service{db: db, log: log.WithComponent("seats")}
}

func (s *service) List(ctx context.Context, offset, size int) ([]Seat, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Seat{}).
		Where("deleted = ?", false).
		Count(&total).Error; err != nil {
		return nil, 0, database.FromDatabase(err, "seat")
	}

	var rows []Seat
	if err := s.db.WithContext(ctx).
		Preload("Bus").
		Where("deleted = ?", false).
		Order("seat_id").
		Offset(offset).
		Limit(size).
		Find(&rows).Error; err != nil {
		return nil, 0, database.FromDatabase(err, "seat")
	}

	return rows, total, nil
}

func (s *service) GetByRange(ctx context.Context, seatIDs []int32, names []string) ([]Seat, error) {
	q := s.db.WithContext(ctx).
		Preload("Bus").
		Where("deleted = ?", false)

	if len(seatIDs) > 0 {
		q = q.Where("seat_id IN ?", seatIDs)
	}
	if len(names) > 0 {
		q = q.Where("name IN ?", names)
	}

	var rows []Seat
	if err := q.Order("seat_id").Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "seat")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, inputs []CreateInput) ([]Seat, error) {
	busIDs := make([]int32, 0, len(inputs))
	for _, in := range inputs {
		busIDs = append(busIDs, in.BusID)
	}
	if err := s.requireBuses(ctx, busIDs); err != nil {
		return nil, err
	}

	var created []Seat
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int32
		if err := tx.Model(&Seat{}).
			Select("COALESCE(MAX(seat_id), 0)").
			Scan(&maxID).Error; err != nil {
			return err
		}

		nextID := maxID + 1
		for _, in := range inputs {
			seat := Seat{
				SeatID: nextID,
				BusID:  in.BusID,
				Price:  in.Price,
				Name:   in.Name,
			}
			if err := tx.Create(&seat).Error; err != nil {
				return err
			}
			created = append(created, seat)
			nextID++
		}
		return nil
	})
	if err != nil {
		return nil, database.FromDatabase(err, "seat")
	}

	s.log.Info("Seats created", map[string]interface{}{"count": len(created)})
	return created, nil
}

func (s *service) Update(ctx context.Context, inputs []UpdateInput) ([]Seat, error) {
	seatIDs := make([]int32, 0, len(inputs))
	busIDs := make([]int32, 0, len(inputs))
	for _, in := range inputs {
		seatIDs = append(seatIDs, in.SeatID)
		busIDs = append(busIDs, in.BusID)
	}

	if err := s.requireSeats(ctx, seatIDs); err != nil {
		return nil, err
	}
	if err := s.requireBuses(ctx, busIDs); err != nil {
		return nil, err
	}

	var updated []Seat
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			if err := tx.Model(&Seat{}).
				Where("seat_id = ?", in.SeatID).
				Updates(map[string]interface{}{
					"bus_id": in.BusID,
					"price":  in.Price,
					"name":   in.Name,
				}).Error; err != nil {
				return err
			}
			updated = append(updated, Seat{
				SeatID: in.SeatID,
				BusID:  in.BusID,
				Price:  in.Price,
				Name:   in.Name,
			})
		}
		return nil
	})
	if err != nil {
		return nil, database.FromDatabase(err, "seat")
	}

	s.log.Info("Seats updated", map[string]interface{}{"count": len(updated)})
	return updated, nil
}

func (s *service) Delete(ctx context.Context, seatIDs []int32) (int64, error) {
	result := s.db.WithContext(ctx).Model(&Seat{}).
		Where("seat_id IN ?", seatIDs).
		Where("deleted = ?", false).
		Update("deleted", true)
	if result.Error != nil {
		return 0, database.FromDatabase(result.Error, "seat")
	}

	s.log.Info("Seats deleted", map[string]interface{}{"count": result.RowsAffected})
	return result.RowsAffected, nil
}

// requireBuses fails with a not-found error naming the first missing bus ID.
func (s *service) requireBuses(ctx context.Context, busIDs []int32) error {
	if len(busIDs) == 0 {
		return nil
	}

	var existing []int32
	if err := s.db.WithContext(ctx).Model(&Bus{}).
		Where("bus_id IN ?", busIDs).
		Pluck("bus_id", &existing).Error; err != nil {
		return database.FromDatabase(err, "bus")
	}

	known := make(map[int32]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, id := range busIDs {
		if _, ok := known[id]; !ok {
			return apperrors.NotFound("bus", fmt.Sprintf("%d", id))
		}
	}
	return nil
}

// requireSeats fails with a not-found error naming the first missing or
// deleted seat ID.
func (s *service) requireSeats(ctx context.Context, seatIDs []int32) error {
	if len(seatIDs) == 0 {
		return nil
	}

	var existing []int32
	if err := s.db.WithContext(ctx).Model(&Seat{}).
		Where("seat_id IN ?", seatIDs).
		Where("deleted = ?", false).
		Pluck("seat_id", &existing).Error; err != nil {
		return database.FromDatabase(err, "seat")
	}

	known := make(map[int32]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, id := range seatIDs {
		if _, ok := known[id]; !ok {
			return apperrors.NotFound("seat", fmt.Sprintf("%d", id))
		}
	}
	return nil
}
