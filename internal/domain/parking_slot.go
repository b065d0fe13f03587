package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParkingSlot is an individually addressable space within a Section.
// Business rule: at most one of {Booked, Available} is true at a time.
type ParkingSlot struct {
	ID                uuid.UUID `json:"id"`
	SectionID         uuid.UUID `json:"section_id"`
	SlotNumber        string    `json:"slot_number"`
	SlotType          string    `json:"slot_type,omitempty"`
	ChargingAvailable bool      `json:"charging_available"`
	Booked            bool      `json:"booked"`
	Reserved          bool      `json:"reserved"`
	Available         bool      `json:"available"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ParkingSlotDTO struct {
	SectionID         string `json:"section_id" binding:"required,uuid"`
	SlotNumber        string `json:"slot_number" binding:"required"`
	SlotType          string `json:"slot_type"`
	ChargingAvailable bool   `json:"charging_available"`
	Reserved          bool   `json:"reserved"`
}

// AvailabilityEvent is pushed to websocket subscribers whenever an
// allocation or release changes what is free.
type AvailabilityEvent struct {
	ResourceType string    `json:"resource_type"` // "area" or "slot"
	ResourceID   string    `json:"resource_id"`
	Available    bool      `json:"available"`
	Remaining    int       `json:"remaining,omitempty"` // area capacity left
	Timestamp    time.Time `json:"timestamp"`
}
