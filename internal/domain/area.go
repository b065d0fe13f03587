package domain

import "time"

// Area is a coarse parking zone with an aggregate capacity counter.
// Capacity never goes below zero; the decrement happens inside the
// allocation transaction.
type Area struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AreaDTO struct {
	Name     string `json:"name" binding:"required"`
	Capacity *int   `json:"capacity" binding:"required,gte=0"`
}

type AllocateAreaDTO struct {
	Capacity *int `json:"capacity" binding:"required"`
}

type ReleaseAreaDTO struct {
	Capacity *int `json:"capacity" binding:"required"`
}

type AllocationResultDTO struct {
	AreaID            int    `json:"area_id"`
	Status            string `json:"status"`
	RemainingCapacity int    `json:"remaining_capacity"`
}
