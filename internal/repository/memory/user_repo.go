// Package memory provides mutex-guarded in-memory implementations of
// the repository interfaces. They back the service tests and double as
// a storage mode for local development without Postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	data   map[int]domain.User
	nextID int
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{data: make(map[int]domain.User), nextID: 1}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.data {
		if existing.Email == user.Email || existing.Username == user.Username {
			return nil, repository.ErrDuplicateEntry
		}
	}

	now := time.Now().UTC()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = now
	user.UpdatedAt = now
	r.data[user.ID] = *user

	out := *user
	return &out, nil
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.data {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := user
	return &out, nil
}

func (r *InMemoryUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.data))
	for id := 1; id < r.nextID; id++ {
		if user, exists := r.data[id]; exists {
			users = append(users, user)
		}
	}
	return users, nil
}
