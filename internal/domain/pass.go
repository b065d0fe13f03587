package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pass is a subscription-style reservation over a date range, priced as
// a flat fee. StartDate must be strictly before EndDate.
type Pass struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	ParkingID int       `json:"parking_id"`
	VehicleID int       `json:"vehicle_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PassDTO struct {
	ParkingID int       `json:"parking_id" binding:"required"`
	VehicleID int       `json:"vehicle_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Price     *float64  `json:"price" binding:"required"`
}
