package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/repository/memory"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.AvailabilityEvent
}

func (n *recordingNotifier) NotifyAvailability(event domain.AvailabilityEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func seedArea(t *testing.T, repo repository.AreaRepository, name string, capacity int) *domain.Area {
	t.Helper()
	area, err := repo.Create(context.Background(), &domain.Area{Name: name, Capacity: capacity})
	require.NoError(t, err)
	return area
}

func TestAllocateAreaFirstFit(t *testing.T) {
	areaRepo := memory.NewInMemoryAreaRepository()
	svc := NewAllocationService(areaRepo, memory.NewInMemorySlotRepository(), nil)
	ctx := context.Background()

	seedArea(t, areaRepo, "North", 10)
	seedArea(t, areaRepo, "South", 100)

	// 60 does not fit the first area, so the second one is picked.
	area, err := svc.AllocateArea(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, "South", area.Name)
	assert.Equal(t, 40, area.Capacity)
}

func TestAllocateAreaNoCapacity(t *testing.T) {
	areaRepo := memory.NewInMemoryAreaRepository()
	svc := NewAllocationService(areaRepo, memory.NewInMemorySlotRepository(), nil)
	ctx := context.Background()

	seeded := seedArea(t, areaRepo, "North", 10)

	_, err := svc.AllocateArea(ctx, 50)
	assert.ErrorIs(t, err, repository.ErrNoCapacity)

	// Failure must leave the counter untouched.
	after, err := areaRepo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Capacity)
}

func TestAllocateAreaRejectsNonPositiveAmount(t *testing.T) {
	svc := NewAllocationService(memory.NewInMemoryAreaRepository(), memory.NewInMemorySlotRepository(), nil)

	_, err := svc.AllocateArea(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AllocateArea(context.Background(), -3)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReleaseAreaRestoresCapacity(t *testing.T) {
	areaRepo := memory.NewInMemoryAreaRepository()
	notifier := &recordingNotifier{}
	svc := NewAllocationService(areaRepo, memory.NewInMemorySlotRepository(), notifier)
	ctx := context.Background()

	seeded := seedArea(t, areaRepo, "North", 100)

	allocated, err := svc.AllocateArea(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, 40, allocated.Capacity)

	released, err := svc.ReleaseArea(ctx, seeded.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 100, released.Capacity)

	assert.Equal(t, 2, notifier.count())
}

// With capacity for only one of two concurrent requests, exactly one
// caller wins and the loser sees ErrNoCapacity.
func TestAllocateAreaConcurrentSingleWinner(t *testing.T) {
	areaRepo := memory.NewInMemoryAreaRepository()
	svc := NewAllocationService(areaRepo, memory.NewInMemorySlotRepository(), nil)
	ctx := context.Background()

	seeded := seedArea(t, areaRepo, "North", 60)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AllocateArea(ctx, 60)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, repository.ErrNoCapacity)
		}
	}
	assert.Equal(t, 1, winners)

	after, err := areaRepo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Capacity)
}

func TestAllocateFromSpecificArea(t *testing.T) {
	areaRepo := memory.NewInMemoryAreaRepository()
	svc := NewAllocationService(areaRepo, memory.NewInMemorySlotRepository(), nil)
	ctx := context.Background()

	seedArea(t, areaRepo, "North", 10)
	target := seedArea(t, areaRepo, "South", 100)

	area, err := svc.AllocateFromArea(ctx, target.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, target.ID, area.ID)
	assert.Equal(t, 40, area.Capacity)

	_, err = svc.AllocateFromArea(ctx, target.ID, 60)
	assert.ErrorIs(t, err, repository.ErrNoCapacity)

	_, err = svc.AllocateFromArea(ctx, 999, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAllocateSlotPicksLowestNumber(t *testing.T) {
	slotRepo := memory.NewInMemorySlotRepository()
	svc := NewAllocationService(memory.NewInMemoryAreaRepository(), slotRepo, nil)
	ctx := context.Background()

	sectionID := uuid.New()
	for _, num := range []string{"B-02", "A-01", "C-03"} {
		_, err := slotRepo.Create(ctx, &domain.ParkingSlot{
			SectionID:  sectionID,
			SlotNumber: num,
			Available:  true,
		})
		require.NoError(t, err)
	}

	slot, err := svc.AllocateSlot(ctx, sectionID, domain.SizeFourSmall, false)
	require.NoError(t, err)
	assert.Equal(t, "A-01", slot.SlotNumber)
	assert.True(t, slot.Booked)
	assert.False(t, slot.Available)
}

// A slot typed for one size class must never be handed to a vehicle of
// another; untyped slots fit anything.
func TestAllocateSlotMatchesVehicleSize(t *testing.T) {
	slotRepo := memory.NewInMemorySlotRepository()
	svc := NewAllocationService(memory.NewInMemoryAreaRepository(), slotRepo, nil)
	ctx := context.Background()

	sectionID := uuid.New()
	_, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:  sectionID,
		SlotNumber: "A-01",
		SlotType:   string(domain.SizeTwo),
		Available:  true,
	})
	require.NoError(t, err)

	_, err = svc.AllocateSlot(ctx, sectionID, domain.SizeFourLarge, false)
	assert.ErrorIs(t, err, repository.ErrNoCapacity)

	untyped, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:  sectionID,
		SlotNumber: "B-02",
		Available:  true,
	})
	require.NoError(t, err)

	slot, err := svc.AllocateSlot(ctx, sectionID, domain.SizeFourLarge, false)
	require.NoError(t, err)
	assert.Equal(t, untyped.ID, slot.ID)

	slot, err = svc.AllocateSlot(ctx, sectionID, domain.SizeTwo, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ParkingSize(slot.SlotType), domain.SizeTwo)
}

func TestAllocateSlotChargingFilter(t *testing.T) {
	slotRepo := memory.NewInMemorySlotRepository()
	svc := NewAllocationService(memory.NewInMemoryAreaRepository(), slotRepo, nil)
	ctx := context.Background()

	sectionID := uuid.New()
	_, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:  sectionID,
		SlotNumber: "A-01",
		Available:  true,
	})
	require.NoError(t, err)
	charger, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:         sectionID,
		SlotNumber:        "B-02",
		ChargingAvailable: true,
		Available:         true,
	})
	require.NoError(t, err)

	slot, err := svc.AllocateSlot(ctx, sectionID, domain.SizeFourSmall, true)
	require.NoError(t, err)
	assert.Equal(t, charger.ID, slot.ID)
}

func TestReleaseSlotMakesItAvailableAgain(t *testing.T) {
	slotRepo := memory.NewInMemorySlotRepository()
	svc := NewAllocationService(memory.NewInMemoryAreaRepository(), slotRepo, nil)
	ctx := context.Background()

	sectionID := uuid.New()
	_, err := slotRepo.Create(ctx, &domain.ParkingSlot{
		SectionID:  sectionID,
		SlotNumber: "A-01",
		Available:  true,
	})
	require.NoError(t, err)

	slot, err := svc.AllocateSlot(ctx, sectionID, domain.SizeFourSmall, false)
	require.NoError(t, err)

	_, err = svc.AllocateSlot(ctx, sectionID, domain.SizeFourSmall, false)
	assert.ErrorIs(t, err, repository.ErrNoCapacity)

	require.NoError(t, svc.ReleaseSlot(ctx, slot.ID))

	again, err := svc.AllocateSlot(ctx, sectionID, domain.SizeFourSmall, false)
	require.NoError(t, err)
	assert.Equal(t, slot.ID, again.ID)
}
