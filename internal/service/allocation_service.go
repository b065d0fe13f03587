package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

// AvailabilityNotifier receives events when capacity changes. The
// websocket hub implements it; a nil notifier disables the feed.
type AvailabilityNotifier interface {
	NotifyAvailability(event domain.AvailabilityEvent)
}

// AllocationService owns the two capacity models: the coarse per-area
// counter and the per-slot booking flags used by tickets. Both reserve
// paths are atomic in the repository so concurrent callers never
// oversubscribe.
type AllocationService struct {
	areaRepo repository.AreaRepository
	slotRepo repository.SlotRepository
	notifier AvailabilityNotifier
}

func NewAllocationService(areaRepo repository.AreaRepository, slotRepo repository.SlotRepository, notifier AvailabilityNotifier) *AllocationService {
	return &AllocationService{
		areaRepo: areaRepo,
		slotRepo: slotRepo,
		notifier: notifier,
	}
}

// AllocateArea claims amount units from the first area that can cover
// them. On ErrNoCapacity no area has been touched.
func (s *AllocationService) AllocateArea(ctx context.Context, amount int) (*domain.Area, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: allocation amount must be positive", ErrValidation)
	}

	area, err := s.areaRepo.AllocateFirstFit(ctx, amount)
	if err != nil {
		return nil, err
	}

	s.publish(domain.AvailabilityEvent{
		ResourceType: "area",
		ResourceID:   fmt.Sprintf("%d", area.ID),
		Available:    area.Capacity > 0,
		Remaining:    area.Capacity,
		Timestamp:    time.Now().In(time.UTC),
	})
	return area, nil
}

// AllocateFromArea claims amount units from one specific area.
func (s *AllocationService) AllocateFromArea(ctx context.Context, areaID int, amount int) (*domain.Area, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: allocation amount must be positive", ErrValidation)
	}

	area, err := s.areaRepo.AllocateCapacity(ctx, areaID, amount)
	if err != nil {
		return nil, err
	}

	s.publish(domain.AvailabilityEvent{
		ResourceType: "area",
		ResourceID:   fmt.Sprintf("%d", area.ID),
		Available:    area.Capacity > 0,
		Remaining:    area.Capacity,
		Timestamp:    time.Now().In(time.UTC),
	})
	return area, nil
}

// ReleaseArea returns amount units to the given area.
func (s *AllocationService) ReleaseArea(ctx context.Context, areaID int, amount int) (*domain.Area, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: release amount must be positive", ErrValidation)
	}

	area, err := s.areaRepo.RestoreCapacity(ctx, areaID, amount)
	if err != nil {
		return nil, err
	}

	s.publish(domain.AvailabilityEvent{
		ResourceType: "area",
		ResourceID:   fmt.Sprintf("%d", area.ID),
		Available:    true,
		Remaining:    area.Capacity,
		Timestamp:    time.Now().In(time.UTC),
	})
	return area, nil
}

// AllocateSlot books the lowest-numbered free slot in the section that
// fits vehicleSize (untyped slots fit anything). needsCharging
// restricts the search to charging-capable slots.
func (s *AllocationService) AllocateSlot(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, needsCharging bool) (*domain.ParkingSlot, error) {
	slot, err := s.slotRepo.ReserveFirstAvailable(ctx, sectionID, vehicleSize, needsCharging)
	if err != nil {
		return nil, err
	}

	s.publish(domain.AvailabilityEvent{
		ResourceType: "slot",
		ResourceID:   slot.ID.String(),
		Available:    false,
		Timestamp:    time.Now().In(time.UTC),
	})
	return slot, nil
}

// ReleaseSlot frees a previously booked slot.
func (s *AllocationService) ReleaseSlot(ctx context.Context, slotID uuid.UUID) error {
	if err := s.slotRepo.Release(ctx, slotID); err != nil {
		return err
	}

	s.publish(domain.AvailabilityEvent{
		ResourceType: "slot",
		ResourceID:   slotID.String(),
		Available:    true,
		Timestamp:    time.Now().In(time.UTC),
	})
	return nil
}

func (s *AllocationService) publish(event domain.AvailabilityEvent) {
	if s.notifier != nil {
		s.notifier.NotifyAvailability(event)
	}
}
