package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

type InMemoryTicketRepository struct {
	mu     sync.RWMutex
	data   map[int]domain.Ticket
	nextID int
}

func NewInMemoryTicketRepository() *InMemoryTicketRepository {
	return &InMemoryTicketRepository{data: make(map[int]domain.Ticket), nextID: 1}
}

func (r *InMemoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	ticket.ID = r.nextID
	r.nextID++
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.data[ticket.ID] = *ticket

	out := *ticket
	return &out, nil
}

func (r *InMemoryTicketRepository) FindByID(ctx context.Context, id int) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := ticket
	return &out, nil
}

func (r *InMemoryTicketRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tickets []domain.Ticket
	for _, ticket := range r.data {
		if ticket.UserID == userID {
			tickets = append(tickets, ticket)
		}
	}
	sortTickets(tickets)
	return tickets, nil
}

func (r *InMemoryTicketRepository) FindAll(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickets := make([]domain.Ticket, 0, len(r.data))
	for _, ticket := range r.data {
		tickets = append(tickets, ticket)
	}
	sortTickets(tickets)
	return tickets, nil
}

// Update preserves the stored entry time; it is immutable after create.
func (r *InMemoryTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.data[ticket.ID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	ticket.EntryTime = stored.EntryTime
	ticket.UpdatedAt = time.Now().UTC()
	r.data[ticket.ID] = *ticket

	out := *ticket
	return &out, nil
}

func (r *InMemoryTicketRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func sortTickets(tickets []domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].EntryTime.After(tickets[j].EntryTime)
	})
}
