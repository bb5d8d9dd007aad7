package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

func newService(repo Repository) *Service {
	return NewService(repo, redisclient.NewLocalLocker(time.Second), zerolog.Nop())
}

func gloves() ItemInput {
	return ItemInput{Name: "Nitrile gloves M", Category: "consumables", Quantity: 12, Unit: "box", MinQuantity: 10}
}

func TestCreateAndUpdate(t *testing.T) {
	svc := newService(clinic.NewMemoryStore())
	ctx := context.Background()

	it, err := svc.Create(ctx, gloves())
	require.NoError(t, err)
	assert.Equal(t, 12, it.Quantity)

	bad := gloves()
	bad.Quantity = -1
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = gloves()
	bad.ExpiryDate = func() *string { s := "next year"; return &s }()
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in := gloves()
	in.Unit = "pack"
	updated, err := svc.Update(ctx, it.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "pack", updated.Unit)

	_, err = svc.Update(ctx, uuid.New(), gloves())
	assert.ErrorIs(t, err, clinic.ErrItemNotFound)
}

func TestAdjust(t *testing.T) {
	svc := newService(clinic.NewMemoryStore())
	ctx := context.Background()

	it, err := svc.Create(ctx, gloves())
	require.NoError(t, err)

	it, err = svc.Adjust(ctx, it.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 10, it.Quantity)
	assert.True(t, IsLow(*it), "at the minimum counts as low")

	_, err = svc.Adjust(ctx, it.ID, -11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	stored, err := svc.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)

	it, err = svc.Adjust(ctx, it.ID, -10)
	require.NoError(t, err)
	assert.Zero(t, it.Quantity)

	it, err = svc.Adjust(ctx, it.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, it.Quantity)
	assert.False(t, IsLow(*it))
}

func TestLowStock(t *testing.T) {
	svc := newService(clinic.NewMemoryStore())
	ctx := context.Background()

	low := gloves()
	low.Quantity = 3
	_, err := svc.Create(ctx, low)
	require.NoError(t, err)
	_, err = svc.Create(ctx, ItemInput{Name: "Lidocaine 2%", Category: "anesthetics", Quantity: 40, Unit: "cartridge", MinQuantity: 20})
	require.NoError(t, err)

	list, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nitrile gloves M", list[0].Name)

	require.NoError(t, svc.Delete(ctx, list[0].ID))
	list, err = svc.LowStock(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

// slowStore starts another withdrawal right after the first read of an item.
type slowStore struct {
	*clinic.MemoryStore
	once     sync.Once
	afterGet func()
}

func (s *slowStore) GetItemByID(ctx context.Context, id uuid.UUID) (*clinic.InventoryItem, error) {
	it, err := s.MemoryStore.GetItemByID(ctx, id)
	if s.afterGet != nil {
		s.once.Do(s.afterGet)
	}
	return it, err
}

func TestAdjustInterleavedWithdrawals(t *testing.T) {
	store := &slowStore{MemoryStore: clinic.NewMemoryStore()}
	svc := newService(store)
	ctx := context.Background()

	in := gloves()
	in.Quantity = 5
	it, err := svc.Create(ctx, in)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		secondErr error
	)
	store.afterGet = func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, secondErr = svc.Adjust(ctx, it.ID, -5)
		}()
		time.Sleep(20 * time.Millisecond)
	}

	_, err = svc.Adjust(ctx, it.ID, -5)
	require.NoError(t, err)
	wg.Wait()
	assert.ErrorIs(t, secondErr, ErrInsufficientStock)

	stored, err := svc.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Quantity)
}

func TestAdjustConcurrentWithdrawals(t *testing.T) {
	svc := newService(clinic.NewMemoryStore())
	ctx := context.Background()

	in := gloves()
	in.Quantity = 5
	it, err := svc.Create(ctx, in)
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Adjust(ctx, it.ID, -1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientStock)
	}
	assert.Equal(t, 5, ok)

	stored, err := svc.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Quantity)
}
