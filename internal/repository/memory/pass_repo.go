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

type InMemoryPassRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]domain.Pass
}

func NewInMemoryPassRepository() *InMemoryPassRepository {
	return &InMemoryPassRepository{data: make(map[uuid.UUID]domain.Pass)}
}

func (r *InMemoryPassRepository) Create(ctx context.Context, pass *domain.Pass) (*domain.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}
	now := time.Now().UTC()
	pass.CreatedAt = now
	pass.UpdatedAt = now
	r.data[pass.ID] = *pass

	out := *pass
	return &out, nil
}

func (r *InMemoryPassRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Pass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pass, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := pass
	return &out, nil
}

func (r *InMemoryPassRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Pass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var passes []domain.Pass
	for _, pass := range r.data {
		if pass.UserID == userID {
			passes = append(passes, pass)
		}
	}
	sortPasses(passes)
	return passes, nil
}

func (r *InMemoryPassRepository) FindAll(ctx context.Context) ([]domain.Pass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	passes := make([]domain.Pass, 0, len(r.data))
	for _, pass := range r.data {
		passes = append(passes, pass)
	}
	sortPasses(passes)
	return passes, nil
}

func (r *InMemoryPassRepository) Update(ctx context.Context, pass *domain.Pass) (*domain.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[pass.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	pass.UpdatedAt = time.Now().UTC()
	r.data[pass.ID] = *pass

	out := *pass
	return &out, nil
}

func (r *InMemoryPassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func sortPasses(passes []domain.Pass) {
	sort.Slice(passes, func(i, j int) bool {
		return passes[i].StartDate.After(passes[j].StartDate)
	})
}
