package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

// PricingService computes charges from the rate table. A ticket's
// charge is elapsed hours times the resolved hourly rate; daily and
// monthly rates scale the same elapsed-hours figure by their period.
type PricingService struct {
	priceRepo repository.PriceRepository
}

func NewPricingService(priceRepo repository.PriceRepository) *PricingService {
	return &PricingService{priceRepo: priceRepo}
}

// ResolveRate finds the rate row for a section / vehicle size /
// charging combination. Newest row wins when several match.
func (s *PricingService) ResolveRate(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, hasCharging bool) (*domain.ParkingPrice, error) {
	return s.priceRepo.ResolveRate(ctx, sectionID, vehicleSize, hasCharging)
}

// PriceTicket computes the amount owed for a stay from entry to exit
// at the given rate. An exit before entry is rejected; an exit equal
// to entry prices as zero.
func (s *PricingService) PriceTicket(entry, exit time.Time, rate *domain.ParkingPrice) (float64, error) {
	if exit.Before(entry) {
		return 0, fmt.Errorf("%w: exit time precedes entry time", ErrValidation)
	}
	if rate == nil {
		return 0, fmt.Errorf("%w: no rate resolved for ticket", ErrValidation)
	}

	hours := exit.Sub(entry).Hours()
	perHour := rate.Price
	switch rate.RateType {
	case domain.RateDaily:
		perHour = rate.Price / 24
	case domain.RateMonthly:
		perHour = rate.Price / (24 * 30)
	}
	return hours * perHour, nil
}

// PricePass validates and returns the flat fee for a date-range pass.
func (s *PricingService) PricePass(start, end time.Time, price float64) (float64, error) {
	if !start.Before(end) {
		return 0, fmt.Errorf("%w: pass start date must precede end date", ErrValidation)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: pass price cannot be negative", ErrValidation)
	}
	return price, nil
}

// FormatCharge renders an amount as a two-decimal string for API
// responses, e.g. 25.0 -> "25.00".
func FormatCharge(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
