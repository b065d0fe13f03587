package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

// TicketService handles vehicles, passes and the ticket lifecycle.
// Creating a ticket reserves a slot; checking out prices the stay and
// frees the slot again.
type TicketService struct {
	ticketRepo  repository.TicketRepository
	vehicleRepo repository.VehicleRepository
	passRepo    repository.PassRepository
	parkingRepo repository.ParkingRepository
	allocation  *AllocationService
	pricing     *PricingService
}

func NewTicketService(
	ticketRepo repository.TicketRepository,
	vehicleRepo repository.VehicleRepository,
	passRepo repository.PassRepository,
	parkingRepo repository.ParkingRepository,
	allocation *AllocationService,
	pricing *PricingService,
) *TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		vehicleRepo: vehicleRepo,
		passRepo:    passRepo,
		parkingRepo: parkingRepo,
		allocation:  allocation,
		pricing:     pricing,
	}
}

// --- Vehicles ---

func (s *TicketService) CreateVehicle(ctx context.Context, userID int, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	if dto.VehicleType != "" && !domain.ValidParkingSize(dto.VehicleType) {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrValidation, dto.VehicleType)
	}
	active := true
	if dto.Active != nil {
		active = *dto.Active
	}
	vehicle := &domain.Vehicle{
		UserID:        userID,
		VehicleNumber: dto.VehicleNumber,
		VehicleType:   dto.VehicleType,
		Electric:      dto.Electric,
		Active:        active,
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *TicketService) GetVehicle(ctx context.Context, id int) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindByID(ctx, id)
}

func (s *TicketService) ListVehicles(ctx context.Context, userID int, isAdmin bool) ([]domain.Vehicle, error) {
	if isAdmin {
		return s.vehicleRepo.FindAll(ctx)
	}
	return s.vehicleRepo.FindByUserID(ctx, userID)
}

func (s *TicketService) UpdateVehicle(ctx context.Context, id int, callerID int, isAdmin bool, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != callerID && !isAdmin {
		return nil, ErrForbidden
	}
	if dto.VehicleType != "" && !domain.ValidParkingSize(dto.VehicleType) {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrValidation, dto.VehicleType)
	}
	vehicle.VehicleNumber = dto.VehicleNumber
	// an omitted type leaves the current one in place
	if dto.VehicleType != "" {
		vehicle.VehicleType = dto.VehicleType
	}
	vehicle.Electric = dto.Electric
	if dto.Active != nil {
		vehicle.Active = *dto.Active
	}
	return s.vehicleRepo.Update(ctx, vehicle)
}

func (s *TicketService) DeleteVehicle(ctx context.Context, id int, callerID int, isAdmin bool) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle.UserID != callerID && !isAdmin {
		return ErrForbidden
	}
	return s.vehicleRepo.Delete(ctx, id)
}

// --- Passes ---

func (s *TicketService) CreatePass(ctx context.Context, userID int, dto domain.PassDTO) (*domain.Pass, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, dto.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d does not exist", ErrValidation, dto.VehicleID)
		}
		return nil, fmt.Errorf("checking vehicle: %w", err)
	}
	if vehicle.UserID != userID {
		return nil, ErrForbidden
	}
	if _, err := s.parkingRepo.FindByID(ctx, dto.ParkingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: parking %d does not exist", ErrValidation, dto.ParkingID)
		}
		return nil, fmt.Errorf("checking parking: %w", err)
	}

	fee, err := s.pricing.PricePass(dto.StartDate, dto.EndDate, *dto.Price)
	if err != nil {
		return nil, err
	}

	pass := &domain.Pass{
		UserID:    userID,
		ParkingID: dto.ParkingID,
		VehicleID: dto.VehicleID,
		StartDate: dto.StartDate.In(time.UTC),
		EndDate:   dto.EndDate.In(time.UTC),
		Price:     fee,
	}
	return s.passRepo.Create(ctx, pass)
}

func (s *TicketService) GetPass(ctx context.Context, id uuid.UUID) (*domain.Pass, error) {
	return s.passRepo.FindByID(ctx, id)
}

func (s *TicketService) ListPasses(ctx context.Context, userID int, isAdmin bool) ([]domain.Pass, error) {
	if isAdmin {
		return s.passRepo.FindAll(ctx)
	}
	return s.passRepo.FindByUserID(ctx, userID)
}

func (s *TicketService) UpdatePass(ctx context.Context, id uuid.UUID, callerID int, isAdmin bool, dto domain.PassDTO) (*domain.Pass, error) {
	pass, err := s.passRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pass.UserID != callerID && !isAdmin {
		return nil, ErrForbidden
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, dto.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d does not exist", ErrValidation, dto.VehicleID)
		}
		return nil, fmt.Errorf("checking vehicle: %w", err)
	}
	// the replacement vehicle must belong to the pass holder
	if vehicle.UserID != pass.UserID {
		return nil, ErrForbidden
	}

	fee, err := s.pricing.PricePass(dto.StartDate, dto.EndDate, *dto.Price)
	if err != nil {
		return nil, err
	}
	if _, err := s.parkingRepo.FindByID(ctx, dto.ParkingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: parking %d does not exist", ErrValidation, dto.ParkingID)
		}
		return nil, fmt.Errorf("checking parking: %w", err)
	}

	pass.ParkingID = dto.ParkingID
	pass.VehicleID = dto.VehicleID
	pass.StartDate = dto.StartDate.In(time.UTC)
	pass.EndDate = dto.EndDate.In(time.UTC)
	pass.Price = fee
	return s.passRepo.Update(ctx, pass)
}

func (s *TicketService) DeletePass(ctx context.Context, id uuid.UUID, callerID int, isAdmin bool) error {
	pass, err := s.passRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if pass.UserID != callerID && !isAdmin {
		return ErrForbidden
	}
	return s.passRepo.Delete(ctx, id)
}

// --- Tickets ---

// CreateTicket books a slot in the requested section for one of the
// caller's vehicles and opens a ticket stamped with the server clock.
// If the ticket insert fails after the slot was reserved, the slot is
// released again so a failed request leaves nothing claimed.
func (s *TicketService) CreateTicket(ctx context.Context, userID int, dto domain.CreateTicketDTO) (*domain.Ticket, error) {
	sectionID, err := uuid.Parse(dto.SectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid section id", ErrValidation)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, dto.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d does not exist", ErrValidation, dto.VehicleID)
		}
		return nil, fmt.Errorf("checking vehicle: %w", err)
	}
	if vehicle.UserID != userID {
		return nil, ErrForbidden
	}
	if !vehicle.Active {
		return nil, fmt.Errorf("%w: vehicle %d is not active", ErrValidation, dto.VehicleID)
	}

	slot, err := s.allocation.AllocateSlot(ctx, sectionID, vehicleSize(vehicle), vehicle.Electric)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		UserID:    userID,
		SlotID:    slot.ID,
		VehicleID: vehicle.ID,
		EntryTime: time.Now().In(time.UTC),
	}
	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		if relErr := s.allocation.ReleaseSlot(ctx, slot.ID); relErr != nil {
			return nil, fmt.Errorf("creating ticket: %w (slot %s left booked: %v)", err, slot.ID, relErr)
		}
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	return created, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int, callerID int, isAdmin bool) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != callerID && !isAdmin {
		return nil, ErrForbidden
	}
	return ticket, nil
}

func (s *TicketService) ListTickets(ctx context.Context, userID int, isAdmin bool) ([]domain.Ticket, error) {
	if isAdmin {
		return s.ticketRepo.FindAll(ctx)
	}
	return s.ticketRepo.FindByUserID(ctx, userID)
}

// vehicleSize maps a vehicle onto the rate table's size axis. Vehicles
// registered without a type default to FOUR-SMALL.
func vehicleSize(v *domain.Vehicle) domain.ParkingSize {
	if domain.ValidParkingSize(v.VehicleType) {
		return domain.ParkingSize(v.VehicleType)
	}
	return domain.SizeFourSmall
}

// CheckoutTicket closes an open ticket: it resolves the rate for the
// slot's section and the vehicle, computes the charge for the elapsed
// time, records it and frees the slot. Already-closed tickets and exit
// times before entry are rejected.
func (s *TicketService) CheckoutTicket(ctx context.Context, id int, callerID int, isAdmin bool, dto domain.CheckoutTicketDTO) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != callerID && !isAdmin {
		return nil, ErrForbidden
	}
	if ticket.ExitTime.Valid {
		return nil, fmt.Errorf("%w: ticket %d is already checked out", ErrValidation, id)
	}

	exitTime := time.Now().In(time.UTC)
	if dto.ExitTime != nil {
		exitTime = dto.ExitTime.In(time.UTC)
	}
	if exitTime.Before(ticket.EntryTime) {
		return nil, fmt.Errorf("%w: exit time precedes entry time", ErrValidation)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, ticket.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("loading vehicle: %w", err)
	}
	slot, err := s.allocation.slotRepo.FindByID(ctx, ticket.SlotID)
	if err != nil {
		return nil, fmt.Errorf("loading slot: %w", err)
	}

	rate, err := s.pricing.ResolveRate(ctx, slot.SectionID, vehicleSize(vehicle), slot.ChargingAvailable)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no rate configured for section %s", ErrValidation, slot.SectionID)
		}
		return nil, fmt.Errorf("resolving rate: %w", err)
	}

	charge, err := s.pricing.PriceTicket(ticket.EntryTime, exitTime, rate)
	if err != nil {
		return nil, err
	}

	ticket.PriceID = uuid.NullUUID{UUID: rate.ID, Valid: true}
	ticket.ExitTime = null.TimeFrom(exitTime)
	ticket.Charge = null.FloatFrom(charge)

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("closing ticket: %w", err)
	}

	if err := s.allocation.ReleaseSlot(ctx, ticket.SlotID); err != nil {
		// reopen the ticket so the stay can be checked out again once
		// the slot can actually be freed
		ticket.PriceID = uuid.NullUUID{}
		ticket.ExitTime = null.Time{}
		ticket.Charge = null.Float{}
		if _, reopenErr := s.ticketRepo.Update(ctx, ticket); reopenErr != nil {
			return nil, fmt.Errorf("releasing slot %s: %w (ticket %d left closed: %v)", ticket.SlotID, err, ticket.ID, reopenErr)
		}
		return nil, fmt.Errorf("releasing slot %s: %w", ticket.SlotID, err)
	}
	return updated, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id int) error {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ticket.ExitTime.Valid {
		if err := s.allocation.ReleaseSlot(ctx, ticket.SlotID); err != nil {
			return fmt.Errorf("releasing slot %s: %w", ticket.SlotID, err)
		}
	}
	return s.ticketRepo.Delete(ctx, id)
}
