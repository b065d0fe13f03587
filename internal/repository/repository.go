package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"parking_manager/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")

// ErrNoCapacity is returned by the atomic reserve operations when no
// area or slot can satisfy the request. Failure leaves no state change.
var ErrNoCapacity = errors.New("no capacity available for the requested allocation")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type AreaRepository interface {
	Create(ctx context.Context, area *domain.Area) (*domain.Area, error)
	FindByID(ctx context.Context, id int) (*domain.Area, error)
	FindAll(ctx context.Context) ([]domain.Area, error)
	Update(ctx context.Context, area *domain.Area) (*domain.Area, error)
	Delete(ctx context.Context, id int) error

	// AllocateFirstFit picks the first area (insertion order) whose
	// capacity covers amount and decrements it, as one indivisible
	// operation. Returns the area with its remaining capacity, or
	// ErrNoCapacity without mutating anything.
	AllocateFirstFit(ctx context.Context, amount int) (*domain.Area, error)

	// AllocateCapacity decrements amount from the given area, but only
	// when its capacity covers it; check and decrement are one
	// indivisible operation. Returns ErrNoCapacity when the area cannot
	// cover the amount, ErrNotFound when it does not exist.
	AllocateCapacity(ctx context.Context, id int, amount int) (*domain.Area, error)

	// RestoreCapacity adds amount back to the area's counter.
	RestoreCapacity(ctx context.Context, id int, amount int) (*domain.Area, error)
}

type ParkingRepository interface {
	Create(ctx context.Context, parking *domain.Parking) (*domain.Parking, error)
	FindByID(ctx context.Context, id int) (*domain.Parking, error)
	FindAll(ctx context.Context) ([]domain.Parking, error)
	FindByAreaID(ctx context.Context, areaID int) ([]domain.Parking, error)
	Update(ctx context.Context, parking *domain.Parking) (*domain.Parking, error)
	Delete(ctx context.Context, id int) error
}

type SectionRepository interface {
	Create(ctx context.Context, section *domain.ParkingSection) (*domain.ParkingSection, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSection, error)
	FindByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSection, error)
	FindAll(ctx context.Context) ([]domain.ParkingSection, error)
	Update(ctx context.Context, section *domain.ParkingSection) (*domain.ParkingSection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SlotRepository interface {
	Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSlot, error)
	FindBySectionID(ctx context.Context, sectionID uuid.UUID) ([]domain.ParkingSlot, error)
	FindAll(ctx context.Context) ([]domain.ParkingSlot, error)
	Update(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveFirstAvailable books the lowest-numbered free slot in the
	// section, atomically flipping available->false and booked->true.
	// Only slots whose type matches vehicleSize qualify; an untyped
	// slot fits any vehicle. needsCharging narrows the search to
	// charging-capable slots.
	ReserveFirstAvailable(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, needsCharging bool) (*domain.ParkingSlot, error)

	// Release flips the slot back to available.
	Release(ctx context.Context, id uuid.UUID) error
}

type PriceRepository interface {
	Create(ctx context.Context, price *domain.ParkingPrice) (*domain.ParkingPrice, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingPrice, error)
	FindBySectionID(ctx context.Context, sectionID uuid.UUID) ([]domain.ParkingPrice, error)
	FindAll(ctx context.Context) ([]domain.ParkingPrice, error)
	Update(ctx context.Context, price *domain.ParkingPrice) (*domain.ParkingPrice, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ResolveRate returns the matching rate row for the key; when more
	// than one matches, the most recently created row wins.
	ResolveRate(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, hasCharging bool) (*domain.ParkingPrice, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id int) (*domain.Vehicle, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Vehicle, error)
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int) error
}

type PassRepository interface {
	Create(ctx context.Context, pass *domain.Pass) (*domain.Pass, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Pass, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Pass, error)
	FindAll(ctx context.Context) ([]domain.Pass, error)
	Update(ctx context.Context, pass *domain.Pass) (*domain.Pass, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id int) (*domain.Ticket, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Ticket, error)
	FindAll(ctx context.Context) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	Delete(ctx context.Context, id int) error
}
