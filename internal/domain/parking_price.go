package domain

import (
	"time"

	"github.com/google/uuid"
)

type RateType string

const (
	RateHourly  RateType = "HOURLY"
	RateDaily   RateType = "DAILY"
	RateMonthly RateType = "MONTHLY"
)

func ValidRateType(s string) bool {
	switch RateType(s) {
	case RateHourly, RateDaily, RateMonthly:
		return true
	}
	return false
}

// ParkingPrice is one row of the rate table, keyed by
// (parking type, vehicle size, charging availability).
// When duplicates match a lookup, the most recently created row wins.
type ParkingPrice struct {
	ID          uuid.UUID   `json:"id"`
	SectionID   uuid.UUID   `json:"section_id"`
	RateType    RateType    `json:"rate_type"`
	Price       float64     `json:"price"`
	VehicleSize ParkingSize `json:"vehicle_size"`
	HasCharging bool        `json:"has_charging"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ParkingPriceDTO struct {
	SectionID   string   `json:"section_id" binding:"required,uuid"`
	RateType    string   `json:"rate_type" binding:"required,oneof=HOURLY DAILY MONTHLY"`
	Price       *float64 `json:"price" binding:"required"`
	VehicleSize string   `json:"vehicle_size" binding:"required,oneof=TWO FOUR-SMALL FOUR-LARGE"`
	HasCharging bool     `json:"has_charging"`
}
