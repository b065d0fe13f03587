package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/repository/memory"
)

func hourlyRate(price float64) *domain.ParkingPrice {
	return &domain.ParkingPrice{
		ID:       uuid.New(),
		RateType: domain.RateHourly,
		Price:    price,
	}
}

func TestPriceTicketHourly(t *testing.T) {
	svc := NewPricingService(memory.NewInMemoryPriceRepository())

	entry := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	exit := entry.Add(2*time.Hour + 30*time.Minute)

	charge, err := svc.PriceTicket(entry, exit, hourlyRate(10.0))
	require.NoError(t, err)
	assert.InDelta(t, 25.0, charge, 1e-9)
	assert.Equal(t, "25.00", FormatCharge(charge))
}

func TestPriceTicketZeroDuration(t *testing.T) {
	svc := NewPricingService(memory.NewInMemoryPriceRepository())

	entry := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	charge, err := svc.PriceTicket(entry, entry, hourlyRate(10.0))
	require.NoError(t, err)
	assert.Equal(t, "0.00", FormatCharge(charge))
}

func TestPriceTicketExitBeforeEntry(t *testing.T) {
	svc := NewPricingService(memory.NewInMemoryPriceRepository())

	entry := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	exit := entry.Add(-time.Minute)

	_, err := svc.PriceTicket(entry, exit, hourlyRate(10.0))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPriceTicketDailyRate(t *testing.T) {
	svc := NewPricingService(memory.NewInMemoryPriceRepository())

	rate := &domain.ParkingPrice{ID: uuid.New(), RateType: domain.RateDaily, Price: 48.0}
	entry := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	exit := entry.Add(12 * time.Hour)

	charge, err := svc.PriceTicket(entry, exit, rate)
	require.NoError(t, err)
	assert.Equal(t, "24.00", FormatCharge(charge))
}

func TestPricePassValidation(t *testing.T) {
	svc := NewPricingService(memory.NewInMemoryPriceRepository())

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	fee, err := svc.PricePass(start, end, 120.0)
	require.NoError(t, err)
	assert.Equal(t, 120.0, fee)

	_, err = svc.PricePass(end, start, 120.0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PricePass(start, start, 120.0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PricePass(start, end, -5.0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveRateNewestWins(t *testing.T) {
	priceRepo := memory.NewInMemoryPriceRepository()
	svc := NewPricingService(priceRepo)
	ctx := context.Background()

	sectionID := uuid.New()
	old := &domain.ParkingPrice{
		SectionID:   sectionID,
		RateType:    domain.RateHourly,
		Price:       5.0,
		VehicleSize: domain.SizeFourSmall,
	}
	_, err := priceRepo.Create(ctx, old)
	require.NoError(t, err)

	newer := &domain.ParkingPrice{
		SectionID:   sectionID,
		RateType:    domain.RateHourly,
		Price:       7.5,
		VehicleSize: domain.SizeFourSmall,
	}
	_, err = priceRepo.Create(ctx, newer)
	require.NoError(t, err)

	rate, err := svc.ResolveRate(ctx, sectionID, domain.SizeFourSmall, false)
	require.NoError(t, err)
	assert.Equal(t, 7.5, rate.Price)
}

func TestResolveRateNoMatch(t *testing.T) {
	svc := NewPricingService(memory.NewInMemoryPriceRepository())

	_, err := svc.ResolveRate(context.Background(), uuid.New(), domain.SizeTwo, false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
