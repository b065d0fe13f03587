package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type InMemorySlotRepository struct {
	mu   sync.Mutex
	data map[uuid.UUID]domain.ParkingSlot
}

func NewInMemorySlotRepository() *InMemorySlotRepository {
	return &InMemorySlotRepository{data: make(map[uuid.UUID]domain.ParkingSlot)}
}

func (r *InMemorySlotRepository) Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.data {
		if existing.SectionID == slot.SectionID && existing.SlotNumber == slot.SlotNumber {
			return nil, repository.ErrDuplicateEntry
		}
	}

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	r.data[slot.ID] = *slot

	out := *slot
	return &out, nil
}

func (r *InMemorySlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := slot
	return &out, nil
}

func (r *InMemorySlotRepository) FindBySectionID(ctx context.Context, sectionID uuid.UUID) ([]domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []domain.ParkingSlot
	for _, slot := range r.data {
		if slot.SectionID == sectionID {
			slots = append(slots, slot)
		}
	}
	sortSlots(slots)
	return slots, nil
}

func (r *InMemorySlotRepository) FindAll(ctx context.Context) ([]domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := make([]domain.ParkingSlot, 0, len(r.data))
	for _, slot := range r.data {
		slots = append(slots, slot)
	}
	sortSlots(slots)
	return slots, nil
}

func (r *InMemorySlotRepository) Update(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[slot.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	slot.UpdatedAt = time.Now().UTC()
	r.data[slot.ID] = *slot

	out := *slot
	return &out, nil
}

func (r *InMemorySlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *InMemorySlotRepository) ReserveFirstAvailable(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, needsCharging bool) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []domain.ParkingSlot
	for _, slot := range r.data {
		if slot.SectionID != sectionID || !slot.Available || slot.Booked || slot.Reserved {
			continue
		}
		// untyped slots fit any vehicle
		if slot.SlotType != "" && slot.SlotType != string(vehicleSize) {
			continue
		}
		if needsCharging && !slot.ChargingAvailable {
			continue
		}
		candidates = append(candidates, slot)
	}
	if len(candidates) == 0 {
		return nil, repository.ErrNoCapacity
	}
	sortSlots(candidates)

	slot := candidates[0]
	slot.Booked = true
	slot.Available = false
	slot.UpdatedAt = time.Now().UTC()
	r.data[slot.ID] = slot

	out := slot
	return &out, nil
}

func (r *InMemorySlotRepository) Release(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, exists := r.data[id]
	if !exists {
		return repository.ErrNotFound
	}
	slot.Booked = false
	slot.Available = true
	slot.UpdatedAt = time.Now().UTC()
	r.data[id] = slot
	return nil
}

func sortSlots(slots []domain.ParkingSlot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].SlotNumber < slots[j].SlotNumber
	})
}
