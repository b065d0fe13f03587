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

type InMemoryPriceRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]domain.ParkingPrice
	seq  int // creation order tie-break when clocks collide
	ord  map[uuid.UUID]int
}

func NewInMemoryPriceRepository() *InMemoryPriceRepository {
	return &InMemoryPriceRepository{
		data: make(map[uuid.UUID]domain.ParkingPrice),
		ord:  make(map[uuid.UUID]int),
	}
}

func (r *InMemoryPriceRepository) Create(ctx context.Context, price *domain.ParkingPrice) (*domain.ParkingPrice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if price.ID == uuid.Nil {
		price.ID = uuid.New()
	}
	now := time.Now().UTC()
	price.CreatedAt = now
	price.UpdatedAt = now
	r.seq++
	r.ord[price.ID] = r.seq
	r.data[price.ID] = *price

	out := *price
	return &out, nil
}

func (r *InMemoryPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ParkingPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	price, exists := r.data[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := price
	return &out, nil
}

func (r *InMemoryPriceRepository) FindBySectionID(ctx context.Context, sectionID uuid.UUID) ([]domain.ParkingPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var prices []domain.ParkingPrice
	for _, price := range r.data {
		if price.SectionID == sectionID {
			prices = append(prices, price)
		}
	}
	r.sortNewestFirst(prices)
	return prices, nil
}

func (r *InMemoryPriceRepository) FindAll(ctx context.Context) ([]domain.ParkingPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prices := make([]domain.ParkingPrice, 0, len(r.data))
	for _, price := range r.data {
		prices = append(prices, price)
	}
	r.sortNewestFirst(prices)
	return prices, nil
}

func (r *InMemoryPriceRepository) ResolveRate(ctx context.Context, sectionID uuid.UUID, vehicleSize domain.ParkingSize, hasCharging bool) (*domain.ParkingPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []domain.ParkingPrice
	for _, price := range r.data {
		if price.SectionID == sectionID && price.VehicleSize == vehicleSize && price.HasCharging == hasCharging {
			matches = append(matches, price)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	r.sortNewestFirst(matches)

	out := matches[0]
	return &out, nil
}

func (r *InMemoryPriceRepository) Update(ctx context.Context, price *domain.ParkingPrice) (*domain.ParkingPrice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[price.ID]; !exists {
		return nil, repository.ErrNotFound
	}
	price.UpdatedAt = time.Now().UTC()
	r.data[price.ID] = *price

	out := *price
	return &out, nil
}

func (r *InMemoryPriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	delete(r.ord, id)
	return nil
}

func (r *InMemoryPriceRepository) sortNewestFirst(prices []domain.ParkingPrice) {
	sort.Slice(prices, func(i, j int) bool {
		return r.ord[prices[i].ID] > r.ord[prices[j].ID]
	})
}
