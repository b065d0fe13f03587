package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/repository/memory"
)

type ticketFixture struct {
	svc       *TicketService
	slotRepo  *memory.InMemorySlotRepository
	priceRepo *memory.InMemoryPriceRepository
	parking   *domain.Parking
	sectionID uuid.UUID
	slot      *domain.ParkingSlot
	vehicle   *domain.Vehicle
}

const fixtureUserID = 1

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	ctx := context.Background()

	areaRepo := memory.NewInMemoryAreaRepository()
	parkingRepo := memory.NewInMemoryParkingRepository()
	slotRepo := memory.NewInMemorySlotRepository()
	priceRepo := memory.NewInMemoryPriceRepository()
	vehicleRepo := memory.NewInMemoryVehicleRepository()

	allocation := NewAllocationService(areaRepo, slotRepo, nil)
	pricing := NewPricingService(priceRepo)
	svc := NewTicketService(
		memory.NewInMemoryTicketRepository(),
		vehicleRepo,
		memory.NewInMemoryPassRepository(),
		parkingRepo,
		allocation,
		pricing,
	)

	area, err := areaRepo.Create(ctx, &domain.Area{Name: "North", Capacity: 100})
	require.NoError(t, err)
	parking, err := parkingRepo.Create(ctx, &domain.Parking{
		UserID: fixtureUserID,
		AreaID: area.ID,
		Name:   "Central",
		Size:   domain.SizeFourSmall,
		Status: domain.ParkingEmpty,
	})
	require.NoError(t, err)

	sectionID := uuid.New()
	slot, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:  sectionID,
		SlotNumber: "A-01",
		Available:  true,
	})
	require.NoError(t, err)

	_, err = priceRepo.Create(ctx, &domain.ParkingPrice{
		SectionID:   sectionID,
		RateType:    domain.RateHourly,
		Price:       10.0,
		VehicleSize: domain.SizeFourSmall,
	})
	require.NoError(t, err)

	vehicle, err := vehicleRepo.Create(ctx, &domain.Vehicle{
		UserID:        fixtureUserID,
		VehicleNumber: "29A-12345",
		Active:        true,
	})
	require.NoError(t, err)

	return &ticketFixture{
		svc:       svc,
		slotRepo:  slotRepo,
		priceRepo: priceRepo,
		parking:   parking,
		sectionID: sectionID,
		slot:      slot,
		vehicle:   vehicle,
	}
}

func TestCreateTicketBooksSlot(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, f.slot.ID, ticket.SlotID)
	assert.Equal(t, fixtureUserID, ticket.UserID)
	assert.False(t, ticket.EntryTime.IsZero())
	assert.False(t, ticket.ExitTime.Valid)

	booked, err := f.slotRepo.FindByID(ctx, f.slot.ID)
	require.NoError(t, err)
	assert.True(t, booked.Booked)
	assert.False(t, booked.Available)
}

func TestCreateTicketSectionFull(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	assert.ErrorIs(t, err, repository.ErrNoCapacity)
}

func TestCreateTicketForeignVehicle(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.CreateTicket(context.Background(), 99, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCheckoutTicketComputesCharge(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	exit := ticket.EntryTime.Add(2*time.Hour + 30*time.Minute)
	closed, err := f.svc.CheckoutTicket(ctx, ticket.ID, fixtureUserID, false, domain.CheckoutTicketDTO{ExitTime: &exit})
	require.NoError(t, err)

	require.True(t, closed.Charge.Valid)
	assert.Equal(t, "25.00", FormatCharge(closed.Charge.Float64))
	assert.True(t, closed.ExitTime.Valid)
	assert.True(t, closed.PriceID.Valid)

	// Checkout frees the slot again.
	slot, err := f.slotRepo.FindByID(ctx, f.slot.ID)
	require.NoError(t, err)
	assert.True(t, slot.Available)
	assert.False(t, slot.Booked)
}

func TestCheckoutTicketTwiceRejected(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.CheckoutTicket(ctx, ticket.ID, fixtureUserID, false, domain.CheckoutTicketDTO{})
	require.NoError(t, err)

	_, err = f.svc.CheckoutTicket(ctx, ticket.ID, fixtureUserID, false, domain.CheckoutTicketDTO{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutTicketExitBeforeEntry(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	exit := ticket.EntryTime.Add(-time.Hour)
	_, err = f.svc.CheckoutTicket(ctx, ticket.ID, fixtureUserID, false, domain.CheckoutTicketDTO{ExitTime: &exit})
	assert.ErrorIs(t, err, ErrValidation)

	// Rejection leaves the ticket open and the slot booked.
	open, err := f.svc.GetTicket(ctx, ticket.ID, fixtureUserID, false)
	require.NoError(t, err)
	assert.False(t, open.ExitTime.Valid)

	slot, err := f.slotRepo.FindByID(ctx, f.slot.ID)
	require.NoError(t, err)
	assert.True(t, slot.Booked)
}

func TestCheckoutTicketOwnerOnly(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.CheckoutTicket(ctx, ticket.ID, 99, false, domain.CheckoutTicketDTO{})
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins can close any ticket.
	_, err = f.svc.CheckoutTicket(ctx, ticket.ID, 99, true, domain.CheckoutTicketDTO{})
	assert.NoError(t, err)
}

func TestCreatePassValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	price := 150.0

	pass, err := f.svc.CreatePass(ctx, fixtureUserID, domain.PassDTO{
		ParkingID: f.parking.ID,
		VehicleID: f.vehicle.ID,
		StartDate: start,
		EndDate:   end,
		Price:     &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, pass.Price)
	assert.Equal(t, fixtureUserID, pass.UserID)

	_, err = f.svc.CreatePass(ctx, fixtureUserID, domain.PassDTO{
		ParkingID: f.parking.ID,
		VehicleID: f.vehicle.ID,
		StartDate: end,
		EndDate:   start,
		Price:     &price,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreatePass(ctx, 99, domain.PassDTO{
		ParkingID: f.parking.ID,
		VehicleID: f.vehicle.ID,
		StartDate: start,
		EndDate:   end,
		Price:     &price,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

// Re-pointing a pass must go through the same vehicle checks as
// creating one: the vehicle has to exist and belong to the pass holder.
func TestUpdatePassRejectsForeignVehicle(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	price := 150.0

	pass, err := f.svc.CreatePass(ctx, fixtureUserID, domain.PassDTO{
		ParkingID: f.parking.ID,
		VehicleID: f.vehicle.ID,
		StartDate: start,
		EndDate:   end,
		Price:     &price,
	})
	require.NoError(t, err)

	other, err := f.svc.CreateVehicle(ctx, 2, domain.VehicleDTO{VehicleNumber: "51C-77777"})
	require.NoError(t, err)

	_, err = f.svc.UpdatePass(ctx, pass.ID, fixtureUserID, false, domain.PassDTO{
		ParkingID: f.parking.ID,
		VehicleID: other.ID,
		StartDate: start,
		EndDate:   end,
		Price:     &price,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdatePass(ctx, pass.ID, fixtureUserID, false, domain.PassDTO{
		ParkingID: f.parking.ID,
		VehicleID: 4242,
		StartDate: start,
		EndDate:   end,
		Price:     &price,
	})
	assert.ErrorIs(t, err, ErrValidation)

	unchanged, err := f.svc.GetPass(ctx, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, f.vehicle.ID, unchanged.VehicleID)
}

func TestCreateVehicleTypeValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVehicle(ctx, fixtureUserID, domain.VehicleDTO{
		VehicleNumber: "30B-55555",
		VehicleType:   "EIGHTEEN-WHEELER",
	})
	assert.ErrorIs(t, err, ErrValidation)

	vehicle, err := f.svc.CreateVehicle(ctx, fixtureUserID, domain.VehicleDTO{
		VehicleNumber: "30B-55555",
		VehicleType:   string(domain.SizeTwo),
	})
	require.NoError(t, err)
	assert.True(t, vehicle.Active)
}

func TestCreateVehicleDuplicateNumber(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateVehicle(ctx, fixtureUserID, domain.VehicleDTO{
		VehicleNumber: f.vehicle.VehicleNumber,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestUpdateVehicleKeepsTypeWhenOmitted(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	vehicle, err := f.svc.CreateVehicle(ctx, fixtureUserID, domain.VehicleDTO{
		VehicleNumber: "43X-00001",
		VehicleType:   string(domain.SizeTwo),
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateVehicle(ctx, vehicle.ID, fixtureUserID, false, domain.VehicleDTO{
		VehicleNumber: "43X-00002",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.SizeTwo), updated.VehicleType)
	assert.Equal(t, "43X-00002", updated.VehicleNumber)
}

// stuckSlotRepo refuses to release slots, simulating a slot store that
// went away between closing the ticket and freeing the slot.
type stuckSlotRepo struct {
	*memory.InMemorySlotRepository
}

func (r *stuckSlotRepo) Release(ctx context.Context, id uuid.UUID) error {
	return errors.New("slot store unavailable")
}

// A checkout whose slot release fails must not leave the ticket closed
// with the slot still booked; the ticket reopens so checkout can be
// retried.
func TestCheckoutReopensTicketWhenReleaseFails(t *testing.T) {
	ctx := context.Background()

	slotRepo := &stuckSlotRepo{memory.NewInMemorySlotRepository()}
	priceRepo := memory.NewInMemoryPriceRepository()
	vehicleRepo := memory.NewInMemoryVehicleRepository()

	allocation := NewAllocationService(memory.NewInMemoryAreaRepository(), slotRepo, nil)
	svc := NewTicketService(
		memory.NewInMemoryTicketRepository(),
		vehicleRepo,
		memory.NewInMemoryPassRepository(),
		memory.NewInMemoryParkingRepository(),
		allocation,
		NewPricingService(priceRepo),
	)

	sectionID := uuid.New()
	_, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:  sectionID,
		SlotNumber: "A-01",
		Available:  true,
	})
	require.NoError(t, err)
	_, err = priceRepo.Create(ctx, &domain.ParkingPrice{
		SectionID:   sectionID,
		RateType:    domain.RateHourly,
		Price:       10.0,
		VehicleSize: domain.SizeFourSmall,
	})
	require.NoError(t, err)
	vehicle, err := vehicleRepo.Create(ctx, &domain.Vehicle{
		UserID:        fixtureUserID,
		VehicleNumber: "29A-12345",
		Active:        true,
	})
	require.NoError(t, err)

	ticket, err := svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: sectionID.String(),
		VehicleID: vehicle.ID,
	})
	require.NoError(t, err)

	_, err = svc.CheckoutTicket(ctx, ticket.ID, fixtureUserID, false, domain.CheckoutTicketDTO{})
	require.Error(t, err)

	open, err := svc.GetTicket(ctx, ticket.ID, fixtureUserID, false)
	require.NoError(t, err)
	assert.False(t, open.ExitTime.Valid)
	assert.False(t, open.Charge.Valid)
	assert.False(t, open.PriceID.Valid)
}

func TestInactiveVehicleCannotOpenTicket(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	inactive := false
	vehicle, err := f.svc.UpdateVehicle(ctx, f.vehicle.ID, fixtureUserID, false, domain.VehicleDTO{
		VehicleNumber: f.vehicle.VehicleNumber,
		Active:        &inactive,
	})
	require.NoError(t, err)
	require.False(t, vehicle.Active)

	_, err = f.svc.CreateTicket(ctx, fixtureUserID, domain.CreateTicketDTO{
		SectionID: f.sectionID.String(),
		VehicleID: f.vehicle.ID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}
