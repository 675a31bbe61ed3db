// Package seats holds the bus/seat inventory guarded by the gateway's
// transport gates. Rows are soft-deleted: a deleted flag hides them from
// every query without losing history.
package seats

// Grants the transport gates check on seat routes.
const (
	PolicyRead  = "read:seats"
	PolicyWrite = "write:seats"
	RoleAdmin   = "admin"
)

// Bus is a vehicle owning a set of seats.
type Bus struct {
	BusID        int32   `gorm:"column:bus_id;primaryKey;autoIncrement:false" json:"bus_id"`
	Name         *string `gorm:"column:name" json:"name,omitempty"`
	LicensePlate string  `gorm:"column:license_plate" json:"license_plate"`
	Deleted      bool    `gorm:"column:deleted;default:false" json:"-"`
}

// TableName overrides GORM's pluralized default.
func (Bus) TableName() string { return "bus" }

// Seat is a sellable seat on a bus.
type Seat struct {
	SeatID  int32  `gorm:"column:seat_id;primaryKey;autoIncrement:false" json:"seat_id"`
	BusID   int32  `gorm:"column:bus_id" json:"bus_id"`
	Price   int32  `gorm:"column:price" json:"price"`
	Deleted bool   `gorm:"column:deleted;default:false" json:"-"`
	Name    string `gorm:"column:name" json:"name"`
	Bus     *Bus   `gorm:"foreignKey:BusID;references:BusID" json:"bus,omitempty"`
}

// TableName overrides GORM's pluralized default.
func (Seat) TableName() string { return "seat" }

// CreateInput describes one seat to create.
type CreateInput struct {
	BusID int32  `json:"bus_id" validate:"gte=1"`
	Price int32  `json:"price" validate:"gte=0"`
	Name  string `json:"name" validate:"required,max=64"`
}

// UpdateInput describes one seat to update. The deleted flag is never
// touched by updates; only Delete changes it.
type UpdateInput struct {
	SeatID int32  `json:"seat_id" validate:"gte=1"`
	BusID  int32  `json:"bus_id" validate:"gte=1"`
	Price  int32  `json:"price" validate:"gte=0"`
	Name   string `json:"name" validate:"required,max=64"`
}
