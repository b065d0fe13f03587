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

type InMemorySectionRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]domain.ParkingSection
}

func NewInMemorySectionRepository() *InMemorySectionRepository {
	return &InMemorySectionRepository{data: make(map[uuid.UUID]domain.ParkingSection)}
}

func (r *InMemorySectionRepository) Create(ctx context.Context, section *domain.ParkingSection) (*domain.ParkingSection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now
	r.data[section.ID] = *section

	out := *section
	return &out, nil
}

func (r *InMemorySectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	section, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := section
	return &out, nil
}

func (r *InMemorySectionRepository) FindByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sections []domain.ParkingSection
	for _, section := range r.data {
		if section.ParkingID == parkingID {
			sections = append(sections, section)
		}
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Floor < sections[j].Floor })
	return sections, nil
}

func (r *InMemorySectionRepository) FindAll(ctx context.Context) ([]domain.ParkingSection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sections := make([]domain.ParkingSection, 0, len(r.data))
	for _, section := range r.data {
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].CreatedAt.Before(sections[j].CreatedAt) })
	return sections, nil
}

func (r *InMemorySectionRepository) Update(ctx context.Context, section *domain.ParkingSection) (*domain.ParkingSection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[section.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	section.UpdatedAt = time.Now().UTC()
	r.data[section.ID] = *section

	out := *section
	return &out, nil
}

func (r *InMemorySectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}
