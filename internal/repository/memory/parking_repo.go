package memory

import (
	"context"
	"sync"
	"time"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type InMemoryParkingRepository struct {
	mu     sync.RWMutex
	data   map[int]domain.Parking
	nextID int
}

func NewInMemoryParkingRepository() *InMemoryParkingRepository {
	return &InMemoryParkingRepository{data: make(map[int]domain.Parking), nextID: 1}
}

func (r *InMemoryParkingRepository) Create(ctx context.Context, parking *domain.Parking) (*domain.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	parking.ID = r.nextID
	r.nextID++
	parking.CreatedAt = now
	parking.UpdatedAt = now
	r.data[parking.ID] = *parking

	out := *parking
	return &out, nil
}

func (r *InMemoryParkingRepository) FindByID(ctx context.Context, id int) (*domain.Parking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parking, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := parking
	return &out, nil
}

func (r *InMemoryParkingRepository) FindAll(ctx context.Context) ([]domain.Parking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parkings := make([]domain.Parking, 0, len(r.data))
	for id := 1; id < r.nextID; id++ {
		if parking, exists := r.data[id]; exists {
			parkings = append(parkings, parking)
		}
	}
	return parkings, nil
}

func (r *InMemoryParkingRepository) FindByAreaID(ctx context.Context, areaID int) ([]domain.Parking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var parkings []domain.Parking
	for id := 1; id < r.nextID; id++ {
		if parking, exists := r.data[id]; exists && parking.AreaID == areaID {
			parkings = append(parkings, parking)
		}
	}
	return parkings, nil
}

func (r *InMemoryParkingRepository) Update(ctx context.Context, parking *domain.Parking) (*domain.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[parking.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	parking.UpdatedAt = time.Now().UTC()
	r.data[parking.ID] = *parking

	out := *parking
	return &out, nil
}

func (r *InMemoryParkingRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}
