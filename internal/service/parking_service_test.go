package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository/memory"
)

func newParkingService() *ParkingService {
	return NewParkingService(
		memory.NewInMemoryAreaRepository(),
		memory.NewInMemoryParkingRepository(),
		memory.NewInMemorySectionRepository(),
		memory.NewInMemorySlotRepository(),
		memory.NewInMemoryPriceRepository(),
	)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestCreateParkingRequiresExistingArea(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	_, err := svc.CreateParking(ctx, 1, domain.ParkingDTO{
		AreaID: 42,
		Name:   "Central",
		Size:   string(domain.SizeFourSmall),
	})
	assert.ErrorIs(t, err, ErrValidation)

	area, err := svc.CreateArea(ctx, domain.AreaDTO{Name: "North", Capacity: intPtr(100)})
	require.NoError(t, err)

	parking, err := svc.CreateParking(ctx, 1, domain.ParkingDTO{
		AreaID: area.ID,
		Name:   "Central",
		Size:   string(domain.SizeFourSmall),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, parking.UserID)
	assert.Equal(t, domain.ParkingEmpty, parking.Status)
}

func TestCreateParkingRejectsUnknownStatus(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, domain.AreaDTO{Name: "North", Capacity: intPtr(100)})
	require.NoError(t, err)

	_, err = svc.CreateParking(ctx, 1, domain.ParkingDTO{
		AreaID: area.ID,
		Name:   "Central",
		Size:   string(domain.SizeTwo),
		Status: "ON FIRE",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSectionRequiresExistingParking(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	_, err := svc.CreateSection(ctx, 1, domain.ParkingSectionDTO{
		ParkingID:   7,
		ParkingType: "covered",
		Capacity:    intPtr(20),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSlotRequiresExistingSection(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, domain.ParkingSlotDTO{
		SectionID:  uuid.New().String(),
		SlotNumber: "A-01",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSlotDefaultsToAvailable(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, domain.AreaDTO{Name: "North", Capacity: intPtr(100)})
	require.NoError(t, err)
	parking, err := svc.CreateParking(ctx, 1, domain.ParkingDTO{
		AreaID: area.ID,
		Name:   "Central",
		Size:   string(domain.SizeFourSmall),
	})
	require.NoError(t, err)
	section, err := svc.CreateSection(ctx, 1, domain.ParkingSectionDTO{
		ParkingID:   parking.ID,
		ParkingType: "covered",
		Capacity:    intPtr(20),
	})
	require.NoError(t, err)

	slot, err := svc.CreateSlot(ctx, domain.ParkingSlotDTO{
		SectionID:  section.ID.String(),
		SlotNumber: "A-01",
	})
	require.NoError(t, err)
	assert.True(t, slot.Available)
	assert.False(t, slot.Booked)

	reserved, err := svc.CreateSlot(ctx, domain.ParkingSlotDTO{
		SectionID:  section.ID.String(),
		SlotNumber: "A-02",
		Reserved:   true,
	})
	require.NoError(t, err)
	assert.False(t, reserved.Available)
}

func TestCreatePriceRequiresExistingSection(t *testing.T) {
	svc := newParkingService()

	_, err := svc.CreatePrice(context.Background(), domain.ParkingPriceDTO{
		SectionID:   uuid.New().String(),
		RateType:    string(domain.RateHourly),
		Price:       floatPtr(10.0),
		VehicleSize: string(domain.SizeFourSmall),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePriceRejectsNegative(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, domain.AreaDTO{Name: "North", Capacity: intPtr(100)})
	require.NoError(t, err)
	parking, err := svc.CreateParking(ctx, 1, domain.ParkingDTO{
		AreaID: area.ID,
		Name:   "Central",
		Size:   string(domain.SizeFourSmall),
	})
	require.NoError(t, err)
	section, err := svc.CreateSection(ctx, 1, domain.ParkingSectionDTO{
		ParkingID:   parking.ID,
		ParkingType: "covered",
		Capacity:    intPtr(20),
	})
	require.NoError(t, err)

	_, err = svc.CreatePrice(ctx, domain.ParkingPriceDTO{
		SectionID:   section.ID.String(),
		RateType:    string(domain.RateHourly),
		Price:       floatPtr(-1.0),
		VehicleSize: string(domain.SizeFourSmall),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAreaRoundTrip(t *testing.T) {
	svc := newParkingService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, domain.AreaDTO{Name: "North", Capacity: intPtr(100)})
	require.NoError(t, err)

	updated, err := svc.UpdateArea(ctx, area.ID, domain.AreaDTO{Name: "North-East", Capacity: intPtr(80)})
	require.NoError(t, err)
	assert.Equal(t, "North-East", updated.Name)
	assert.Equal(t, 80, updated.Capacity)

	fetched, err := svc.GetArea(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, "North-East", fetched.Name)
}
