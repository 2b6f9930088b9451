package expense

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripspend/tripspend/internal/event_bus"
)

var (
	fuel  = Record{Category: CategoryFuel, Amount: Money{Cents: 10000}, Date: NewDate(2024, time.January, 1)}
	hotel = Record{Category: CategoryHotel, Amount: Money{Cents: 35050}, Date: NewDate(2024, time.January, 1)}
	toll  = Record{Category: CategoryToll, Amount: Money{Cents: 1220}, Date: NewDate(2024, time.January, 2)}
)

func setupServiceTest(t *testing.T, records ...Record) (*ServiceImpl, *StoreStub, *event_bus.EventBus, context.Context) {
	store := NewStoreStub(records...)
	bus := event_bus.NewEventBus()
	service := NewService(bus)
	ctx := WithStore(context.Background(), store)
	t.Cleanup(store.Reset)
	return service, store, bus, ctx
}

func TestServiceImpl_Add(t *testing.T) {
	t.Run("should append record to stored list", func(t *testing.T) {
		// given
		service, store, bus, ctx := setupServiceTest(t, fuel)
		var published []event_bus.ExpenseAddedData
		event_bus.SubscribeTyped(bus, event_bus.ExpenseAdded, func(ctx context.Context, data event_bus.ExpenseAddedData) error {
			published = append(published, data)
			return nil
		})

		// when
		err := service.Add(ctx, hotel)

		// then
		require.NoError(t, err)
		assert.Equal(t, []Record{fuel, hotel}, store.Records())
		require.Len(t, published, 1)
		assert.Equal(t, string(CategoryHotel), published[0].Category)
		assert.Equal(t, int64(35050), published[0].AmountCents)
		assert.Equal(t, 2, published[0].Count)
	})

	t.Run("should not write when stored list cannot be read", func(t *testing.T) {
		// given
		service, store, _, ctx := setupServiceTest(t, fuel)
		store.SetFetchError(ErrStoreTestError)

		// when
		err := service.Add(ctx, hotel)

		// then
		assert.ErrorIs(t, err, ErrStoreTestError)
		assert.Equal(t, 0, store.ReplaceCalls())
	})

	t.Run("should reject invalid record", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t)

		err := service.Add(ctx, Record{Category: CategoryFood, Date: NewDate(2024, time.January, 1)})

		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, 0, store.ReplaceCalls())
	})

	t.Run("should fail without store in context", func(t *testing.T) {
		service := NewService(nil)

		err := service.Add(context.Background(), fuel)

		assert.ErrorIs(t, err, ErrNoStore)
	})
}

func TestServiceImpl_Replace(t *testing.T) {
	t.Run("should overwrite the whole list", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t, fuel, hotel)

		err := service.Replace(ctx, []Record{toll})

		require.NoError(t, err)
		assert.Equal(t, []Record{toll}, store.Records())
	})

	t.Run("should store an empty list", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t, fuel)

		err := service.Replace(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, store.Records())
		assert.Equal(t, 1, store.ReplaceCalls())
	})

	t.Run("should reject list with invalid record", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t, fuel)

		err := service.Replace(ctx, []Record{toll, {Category: "Casino", Amount: Money{Cents: 1}, Date: NewDate(2024, time.January, 1)}})

		assert.ErrorIs(t, err, ErrInvalidCategory)
		assert.Contains(t, err.Error(), "record 1")
		assert.Equal(t, []Record{fuel}, store.Records())
	})

	t.Run("round trip leaves content unchanged", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t, fuel, hotel, toll)

		records, err := service.List(ctx)
		require.NoError(t, err)
		require.NoError(t, service.Replace(ctx, records))

		assert.Equal(t, []Record{fuel, hotel, toll}, store.Records())
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should drop records at positions", func(t *testing.T) {
		service, store, bus, ctx := setupServiceTest(t, fuel, hotel, toll)
		var count int
		event_bus.SubscribeTyped(bus, event_bus.ExpensesReplaced, func(ctx context.Context, data event_bus.ExpensesReplacedData) error {
			count = data.Count
			return nil
		})

		err := service.Delete(ctx, []int{0, 2})

		require.NoError(t, err)
		assert.Equal(t, []Record{hotel}, store.Records())
		assert.Equal(t, 1, count)
	})

	t.Run("should reject position out of range", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t, fuel)

		err := service.Delete(ctx, []int{1})

		assert.ErrorIs(t, err, ErrInvalidPosition)
		assert.Equal(t, 0, store.ReplaceCalls())
	})
}

func TestServiceImpl_LegacyHelpers(t *testing.T) {
	t.Run("Records should degrade to nil on failure", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t, fuel)
		store.SetFetchError(ErrStoreTestError)

		assert.Nil(t, service.Records(ctx))
	})

	t.Run("Records should return stored list", func(t *testing.T) {
		service, _, _, ctx := setupServiceTest(t, fuel)

		assert.Equal(t, []Record{fuel}, service.Records(ctx))
	})

	t.Run("Save should report failure", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t)
		store.SetReplaceError(ErrStoreTestError)

		assert.False(t, service.Save(ctx, []Record{fuel}))
	})

	t.Run("Save should report success", func(t *testing.T) {
		service, store, _, ctx := setupServiceTest(t)

		assert.True(t, service.Save(ctx, []Record{fuel}))
		assert.Equal(t, []Record{fuel}, store.Records())
	})
}
