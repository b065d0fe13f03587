package memory

import (
	"context"
	"sync"
	"time"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type InMemoryAreaRepository struct {
	mu     sync.Mutex
	data   map[int]domain.Area
	nextID int
}

func NewInMemoryAreaRepository() *InMemoryAreaRepository {
	return &InMemoryAreaRepository{data: make(map[int]domain.Area), nextID: 1}
}

func (r *InMemoryAreaRepository) Create(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	area.ID = r.nextID
	r.nextID++
	area.CreatedAt = now
	area.UpdatedAt = now
	r.data[area.ID] = *area

	out := *area
	return &out, nil
}

func (r *InMemoryAreaRepository) FindByID(ctx context.Context, id int) (*domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	area, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := area
	return &out, nil
}

func (r *InMemoryAreaRepository) FindAll(ctx context.Context) ([]domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	areas := make([]domain.Area, 0, len(r.data))
	for id := 1; id < r.nextID; id++ {
		if area, exists := r.data[id]; exists {
			areas = append(areas, area)
		}
	}
	return areas, nil
}

func (r *InMemoryAreaRepository) Update(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[area.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	area.UpdatedAt = time.Now().UTC()
	r.data[area.ID] = *area

	out := *area
	return &out, nil
}

func (r *InMemoryAreaRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// AllocateFirstFit holds the lock across the whole scan-and-decrement,
// which is what makes the check-and-decrement indivisible here.
func (r *InMemoryAreaRepository) AllocateFirstFit(ctx context.Context, amount int) (*domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := 1; id < r.nextID; id++ {
		area, exists := r.data[id]
		if !exists || area.Capacity < amount {
			continue
		}
		area.Capacity -= amount
		area.UpdatedAt = time.Now().UTC()
		r.data[id] = area

		out := area
		return &out, nil
	}
	return nil, repository.ErrNoCapacity
}

func (r *InMemoryAreaRepository) AllocateCapacity(ctx context.Context, id int, amount int) (*domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	area, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	if area.Capacity < amount {
		return nil, repository.ErrNoCapacity
	}
	area.Capacity -= amount
	area.UpdatedAt = time.Now().UTC()
	r.data[id] = area

	out := area
	return &out, nil
}

func (r *InMemoryAreaRepository) RestoreCapacity(ctx context.Context, id int, amount int) (*domain.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	area, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	area.Capacity += amount
	area.UpdatedAt = time.Now().UTC()
	r.data[id] = area

	out := area
	return &out, nil
}
