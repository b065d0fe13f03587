package domain

import "time"

type Vehicle struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	VehicleNumber string    `json:"vehicle_number"`
	VehicleType   string    `json:"vehicle_type,omitempty"`
	Electric      bool      `json:"electric"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type VehicleDTO struct {
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	VehicleType   string `json:"vehicle_type"`
	Electric      bool   `json:"electric"`
	Active        *bool  `json:"active"`
}
