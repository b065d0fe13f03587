package memory

import (
	"context"
	"sync"
	"time"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type InMemoryVehicleRepository struct {
	mu     sync.RWMutex
	data   map[int]domain.Vehicle
	nextID int
}

func NewInMemoryVehicleRepository() *InMemoryVehicleRepository {
	return &InMemoryVehicleRepository{data: make(map[int]domain.Vehicle), nextID: 1}
}

func (r *InMemoryVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// vehicle number is globally unique
	for _, existing := range r.data {
		if existing.VehicleNumber == vehicle.VehicleNumber {
			return nil, repository.ErrDuplicateEntry
		}
	}

	now := time.Now().UTC()
	vehicle.ID = r.nextID
	r.nextID++
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	r.data[vehicle.ID] = *vehicle

	out := *vehicle
	return &out, nil
}

func (r *InMemoryVehicleRepository) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicle, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := vehicle
	return &out, nil
}

func (r *InMemoryVehicleRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var vehicles []domain.Vehicle
	for id := 1; id < r.nextID; id++ {
		if vehicle, exists := r.data[id]; exists && vehicle.UserID == userID {
			vehicles = append(vehicles, vehicle)
		}
	}
	return vehicles, nil
}

func (r *InMemoryVehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicles := make([]domain.Vehicle, 0, len(r.data))
	for id := 1; id < r.nextID; id++ {
		if vehicle, exists := r.data[id]; exists {
			vehicles = append(vehicles, vehicle)
		}
	}
	return vehicles, nil
}

func (r *InMemoryVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[vehicle.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	for id, existing := range r.data {
		if id != vehicle.ID && existing.VehicleNumber == vehicle.VehicleNumber {
			return nil, repository.ErrDuplicateEntry
		}
	}
	vehicle.UpdatedAt = time.Now().UTC()
	r.data[vehicle.ID] = *vehicle

	out := *vehicle
	return &out, nil
}

func (r *InMemoryVehicleRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}
