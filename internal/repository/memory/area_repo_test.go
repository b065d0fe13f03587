package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

// Many concurrent single-unit allocations against one counter must
// never drive it negative and must hand out exactly capacity units.
func TestAllocateFirstFitNeverOversubscribes(t *testing.T) {
	repo := NewInMemoryAreaRepository()
	ctx := context.Background()

	const capacity = 25
	const workers = 100

	area, err := repo.Create(ctx, &domain.Area{Name: "North", Capacity: capacity})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var granted, denied int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AllocateFirstFit(ctx, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				granted++
			} else if errors.Is(err, repository.ErrNoCapacity) {
				denied++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(capacity), granted)
	assert.Equal(t, int64(workers-capacity), denied)

	after, err := repo.FindByID(ctx, area.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Capacity)
}

func TestAllocateFirstFitSkipsSmallAreas(t *testing.T) {
	repo := NewInMemoryAreaRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Area{Name: "Tiny", Capacity: 5})
	require.NoError(t, err)
	big, err := repo.Create(ctx, &domain.Area{Name: "Big", Capacity: 50})
	require.NoError(t, err)

	area, err := repo.AllocateFirstFit(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, big.ID, area.ID)
	assert.Equal(t, 20, area.Capacity)
}
