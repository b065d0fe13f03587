package domain

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

// Ticket records one vehicle's stay in a slot. EntryTime is stamped
// server-side at creation and never changes afterwards; ExitTime and
// Charge are filled in at checkout.
type Ticket struct {
	ID        int           `json:"id"`
	UserID    int           `json:"user_id"`
	SlotID    uuid.UUID     `json:"slot_id"`
	VehicleID int           `json:"vehicle_id"`
	PriceID   uuid.NullUUID `json:"price_id,omitempty"`
	EntryTime time.Time     `json:"entry_time"`
	ExitTime  null.Time     `json:"exit_time"`
	Charge    null.Float    `json:"charge"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CreateTicketDTO struct {
	SectionID string `json:"section_id" binding:"required,uuid"`
	VehicleID int    `json:"vehicle_id" binding:"required"`
}

type CheckoutTicketDTO struct {
	// Optional; server time is used when absent. Rejected when earlier
	// than the ticket's entry time.
	ExitTime *time.Time `json:"exit_time"`
}

type TicketChargeDTO struct {
	TicketID int    `json:"ticket_id"`
	Charge   string `json:"charge"` // decimal string, two places
}
