package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/debounce"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRemoteCart struct {
	mu         sync.Mutex
	mergeCalls int
	merged     []models.LineItem
	fetchItems []models.LineItem
	mergeErr   error
	fetchErr   error
}

func (m *mockRemoteCart) Merge(_ context.Context, _ primitive.ObjectID, items []models.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mergeCalls++
	if m.mergeErr != nil {
		return m.mergeErr
	}
	m.merged = items
	return nil
}

func (m *mockRemoteCart) Fetch(context.Context, primitive.ObjectID) ([]models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.fetchItems, nil
}

func newMergeFixture(remote *mockRemoteCart) (*CartMergeEngine, *CartStoreService) {
	store := NewCartStore(kv.NewMemoryStore(), debounce.NewScheduler(time.Second))
	return NewCartMergeEngine(store, remote), store
}

func TestMergeReplacesLocalCartWithRemoteResult(t *testing.T) {
	ctx := context.Background()

	guest := testProduct(10)
	remoteItem := models.LineItem{Id: "remote-1", ProductId: guest.Id, Name: guest.Name, UnitPrice: guest.Price, Quantity: 5}
	remote := &mockRemoteCart{fetchItems: []models.LineItem{remoteItem}}
	engine, cart := newMergeFixture(remote)

	_, err := cart.Add(ctx, "s1", guest, models.CartItemRequest{Quantity: 2})
	require.NoError(t, err)

	engine.MergeOnSignIn(ctx, "s1", primitive.NewObjectID())

	// Guest items were pushed upstream.
	require.Len(t, remote.merged, 1)
	assert.Equal(t, 2, remote.merged[0].Quantity)

	// Local cart now holds the authoritative remote list.
	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, "remote-1", items[0].Id)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestMergeFailureLeavesGuestCartUsable(t *testing.T) {
	ctx := context.Background()

	remote := &mockRemoteCart{mergeErr: errors.New("remote unavailable")}
	engine, cart := newMergeFixture(remote)

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 3})
	require.NoError(t, err)

	engine.MergeOnSignIn(ctx, "s1", primitive.NewObjectID())

	// Guest cart is untouched and still mutable.
	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.NoError(t, cart.UpdateQuantity(ctx, "s1", item.Id, 4))
}

func TestFetchFailureLeavesGuestCartUntouched(t *testing.T) {
	ctx := context.Background()

	remote := &mockRemoteCart{fetchErr: errors.New("remote unavailable")}
	engine, cart := newMergeFixture(remote)

	_, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	engine.MergeOnSignIn(ctx, "s1", primitive.NewObjectID())

	assert.Len(t, cart.Load(ctx, "s1"), 1)
}

func TestMergeWithEmptyGuestCartStillAdoptsRemote(t *testing.T) {
	ctx := context.Background()

	remoteItem := models.LineItem{Id: "remote-1", ProductId: primitive.NewObjectID(), Quantity: 1}
	remote := &mockRemoteCart{fetchItems: []models.LineItem{remoteItem}}
	engine, cart := newMergeFixture(remote)

	engine.MergeOnSignIn(ctx, "s1", primitive.NewObjectID())

	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, "remote-1", items[0].Id)
}

func TestSequentialSignInsMergeAgain(t *testing.T) {
	ctx := context.Background()

	remote := &mockRemoteCart{}
	engine, _ := newMergeFixture(remote)
	userID := primitive.NewObjectID()

	engine.MergeOnSignIn(ctx, "s1", userID)
	engine.MergeOnSignIn(ctx, "s1", userID)

	// The in-flight guard only coalesces concurrent runs; a fresh sign-in
	// merges again.
	assert.Equal(t, 2, remote.mergeCalls)
}
