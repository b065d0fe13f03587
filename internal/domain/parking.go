package domain

import (
	"time"

	"github.com/google/uuid"
)

type ParkingSize string

const (
	SizeTwo       ParkingSize = "TWO"
	SizeFourSmall ParkingSize = "FOUR-SMALL"
	SizeFourLarge ParkingSize = "FOUR-LARGE"
)

func ValidParkingSize(s string) bool {
	switch ParkingSize(s) {
	case SizeTwo, SizeFourSmall, SizeFourLarge:
		return true
	}
	return false
}

type ParkingStatus string

const (
	ParkingEmpty    ParkingStatus = "EMPTY"
	ParkingOccupied ParkingStatus = "OCCUPIED"
	ParkingInRepair ParkingStatus = "IN REPAIR"
)

// Parking is a named facility belonging to one Area. The owning user is
// stamped from the authenticated caller at creation.
type Parking struct {
	ID        int           `json:"id"`
	UserID    int           `json:"user_id"`
	AreaID    int           `json:"area_id"`
	Name      string        `json:"name"`
	Location  string        `json:"location,omitempty"`
	Size      ParkingSize   `json:"size"`
	Status    ParkingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ParkingDTO struct {
	AreaID   int    `json:"area_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Size     string `json:"size" binding:"required,oneof=TWO FOUR-SMALL FOUR-LARGE"`
	Status   string `json:"status,omitempty"`
}

// ParkingSection is a floor/zone subdivision of a Parking.
type ParkingSection struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	ParkingID   int       `json:"parking_id"`
	Floor       int       `json:"floor"`
	ParkingType string    `json:"parking_type"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ParkingSectionDTO struct {
	ParkingID   int    `json:"parking_id" binding:"required"`
	Floor       int    `json:"floor"`
	ParkingType string `json:"parking_type" binding:"required"`
	Capacity    *int   `json:"capacity" binding:"required,gte=0"`
}
