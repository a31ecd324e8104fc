package customer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/memory"
	"github.com/YelzhanWeb/chefmenu/internal/adapter/storage"
	"github.com/YelzhanWeb/chefmenu/internal/app/state"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []interfaces.MenuEvent
}

func (p *recordingPublisher) PublishMenuEvent(ctx context.Context, event interfaces.MenuEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

var (
	soup  = domain.Dish{ID: "soup", Name: "Tomato Soup", Description: "roasted", Course: domain.CourseStarters, Price: 40, CreatedAt: 1}
	salad = domain.Dish{ID: "salad", Name: "Caesar Salad", Course: domain.CourseStarters, Price: 50, CreatedAt: 2}
	steak = domain.Dish{ID: "steak", Name: "Steak", Description: "with tomato butter", Course: domain.CourseMains, Price: 180, CreatedAt: 3}
)

func newTestService(t *testing.T, menu ...domain.Dish) (*Service, *state.Store, *recordingPublisher) {
	t.Helper()
	gw := storage.NewGateway(memory.NewKVStore(), "menu", "cart", logger.Nop())
	require.NoError(t, gw.SaveMenu(context.Background(), menu))

	store := state.Load(context.Background(), gw, logger.Nop())
	pub := &recordingPublisher{}
	svc := NewService(store, pub, logger.Nop())
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store, pub
}

func TestBrowse(t *testing.T) {
	svc, _, _ := newTestService(t, soup, salad, steak)
	ctx := context.Background()

	all, err := svc.Browse(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Dish{soup, salad, steak}, all)

	starters, err := svc.Browse(ctx, "Starters", "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Dish{soup, salad}, starters)

	tomato, err := svc.Browse(ctx, "All", "  TOMATO ")
	require.NoError(t, err)
	assert.Equal(t, []domain.Dish{soup, steak}, tomato)

	_, err = svc.Browse(ctx, "Brunch", "")
	assert.ErrorIs(t, err, domain.ErrUnknownCourse)
}

func TestAverages(t *testing.T) {
	svc, _, _ := newTestService(t, soup, salad, steak)

	avg := svc.Averages(context.Background())
	assert.Equal(t, domain.CourseStats{Count: 2, AveragePrice: 45}, avg[domain.CourseStarters])
	assert.Equal(t, domain.CourseStats{Count: 1, AveragePrice: 180}, avg[domain.CourseMains])
	assert.Equal(t, domain.CourseStats{}, avg[domain.CourseDesserts])
}

func TestAddToCart(t *testing.T) {
	svc, _, pub := newTestService(t, soup, steak)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "soup", 1)
	require.NoError(t, err)
	resp, err := svc.AddToCart(ctx, "soup", 1)
	require.NoError(t, err)
	resp2, err := svc.AddToCart(ctx, "steak", 1)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Totals.TotalItems)
	assert.Equal(t, 3, resp2.Totals.TotalItems)
	assert.Equal(t, 260.0, resp2.Totals.TotalPrice)
	assert.True(t, resp2.Saved)

	require.Len(t, resp2.Lines, 2)
	assert.Equal(t, "soup", resp2.Lines[0].Dish.ID)
	assert.Equal(t, 80.0, resp2.Lines[0].LineTotal)

	require.Len(t, pub.events, 3)
	last := pub.events[2]
	assert.Equal(t, interfaces.EventCartUpdated, last.Type)
	assert.Equal(t, "steak", last.DishID)
	assert.Equal(t, "Steak", last.DishName)
	assert.Equal(t, 1, last.Quantity)
	assert.Equal(t, 3, last.CartItems)
}

func TestAddToCartFloorsAtZero(t *testing.T) {
	svc, store, _ := newTestService(t, soup)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "soup", 2)
	require.NoError(t, err)
	resp, err := svc.AddToCart(ctx, "soup", -5)
	require.NoError(t, err)

	assert.Empty(t, resp.Lines)
	assert.NotContains(t, store.Snapshot().Cart, "soup")
}

func TestAddToCartUnknownDish(t *testing.T) {
	svc, store, pub := newTestService(t, soup)

	_, err := svc.AddToCart(context.Background(), "ghost", 1)
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
	assert.Empty(t, store.Snapshot().Cart)
	assert.Empty(t, pub.events)
}

func TestSetQuantity(t *testing.T) {
	svc, store, _ := newTestService(t, soup)
	ctx := context.Background()

	resp, err := svc.SetQuantity(ctx, "soup", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Totals.TotalItems)

	_, err = svc.SetQuantity(ctx, "soup", 0)
	require.NoError(t, err)
	assert.NotContains(t, store.Snapshot().Cart, "soup")

	_, err = svc.SetQuantity(ctx, "ghost", 2)
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
}

func TestOrphanedEntriesCanShrink(t *testing.T) {
	svc, store, _ := newTestService(t, soup)
	ctx := context.Background()

	_, _, err := store.Update(ctx, func(snap state.Snapshot) (state.Snapshot, error) {
		snap.Cart = domain.Cart{"ghost": 5, "soup": 1}
		return snap, nil
	})
	require.NoError(t, err)

	resp, err := svc.AddToCart(ctx, "ghost", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.TotalItems)
	assert.Equal(t, 4, store.Snapshot().Cart["ghost"])

	_, err = svc.SetQuantity(ctx, "ghost", 2)
	require.NoError(t, err)

	_, err = svc.RemoveFromCart(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, domain.Cart{"soup": 1}, store.Snapshot().Cart)
}

func TestRemoveFromCart(t *testing.T) {
	svc, store, pub := newTestService(t, soup, steak)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, "soup", 3)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, "steak", 1)
	require.NoError(t, err)

	resp, err := svc.RemoveFromCart(ctx, "soup")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.TotalItems)
	assert.Equal(t, domain.Cart{"steak": 1}, store.Snapshot().Cart)
	assert.Equal(t, 0, pub.events[len(pub.events)-1].Quantity)

	published := len(pub.events)
	_, err = svc.RemoveFromCart(ctx, "soup")
	require.NoError(t, err)
	assert.Len(t, pub.events, published)
}

func TestClearCart(t *testing.T) {
	svc, store, pub := newTestService(t, soup, steak)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, "soup", 3)
	require.NoError(t, err)

	resp, err := svc.ClearCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, domain.CartTotals{}, resp.Totals)
	assert.Empty(t, store.Snapshot().Cart)
	assert.Equal(t, interfaces.EventCartCleared, pub.events[len(pub.events)-1].Type)

	published := len(pub.events)
	_, err = svc.ClearCart(ctx)
	require.NoError(t, err)
	assert.Len(t, pub.events, published)
}

func TestCartPersistsAcrossReload(t *testing.T) {
	kv := memory.NewKVStore()
	gw := storage.NewGateway(kv, "menu", "cart", logger.Nop())
	require.NoError(t, gw.SaveMenu(context.Background(), []domain.Dish{soup}))

	svc := NewService(state.Load(context.Background(), gw, logger.Nop()), &recordingPublisher{}, logger.Nop())
	_, err := svc.AddToCart(context.Background(), "soup", 2)
	require.NoError(t, err)

	reloaded := NewService(state.Load(context.Background(), gw, logger.Nop()), &recordingPublisher{}, logger.Nop())
	assert.Equal(t, 2, reloaded.Cart(context.Background()).Totals.TotalItems)
}

func TestLargeQuantitySurvivesReload(t *testing.T) {
	kv := memory.NewKVStore()
	gw := storage.NewGateway(kv, "menu", "cart", logger.Nop())
	require.NoError(t, gw.SaveMenu(context.Background(), []domain.Dish{soup}))

	svc := NewService(state.Load(context.Background(), gw, logger.Nop()), &recordingPublisher{}, logger.Nop())
	_, err := svc.AddToCart(context.Background(), "soup", domain.MaxQuantity)
	require.NoError(t, err)
	resp, err := svc.AddToCart(context.Background(), "soup", domain.MaxQuantity)
	require.NoError(t, err)
	assert.True(t, resp.Saved)
	assert.Equal(t, domain.MaxQuantity, resp.Totals.TotalItems)

	reloaded := NewService(state.Load(context.Background(), gw, logger.Nop()), &recordingPublisher{}, logger.Nop())
	assert.Equal(t, domain.MaxQuantity, reloaded.Cart(context.Background()).Totals.TotalItems)
}

func TestConcurrentAddsPublishInOrder(t *testing.T) {
	svc, _, pub := newTestService(t, soup)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddToCart(context.Background(), "soup", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, pub.events, n)
	for i, event := range pub.events {
		assert.Equal(t, i+1, event.Quantity)
		assert.Equal(t, i+1, event.CartItems)
	}
}

func TestCartUpdateSurvivesFailedSave(t *testing.T) {
	svc, _, _ := newTestService(t, soup)
	svc.store = state.Load(context.Background(), storage.NewGateway(failingStore{memory.NewKVStore()}, "menu", "cart", logger.Nop()), logger.Nop())
	_, _, err := svc.store.Update(context.Background(), func(snap state.Snapshot) (state.Snapshot, error) {
		snap.Menu = []domain.Dish{soup}
		return snap, nil
	})
	require.NoError(t, err)

	resp, err := svc.AddToCart(context.Background(), "soup", 1)
	require.NoError(t, err)
	assert.False(t, resp.Saved)
	assert.Equal(t, 1, svc.Cart(context.Background()).Totals.TotalItems)
}

type failingStore struct {
	interfaces.KeyValueStore
}

func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk full")
}
