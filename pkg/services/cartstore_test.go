package services

import (
	"context"
	"testing"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/debounce"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) debounce.Timer {
	t := &manualTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) fire() {
	pending := c.timers
	c.timers = nil
	for _, t := range pending {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func newTestCartStore() (*CartStoreService, *kv.MemoryStore, *manualClock) {
	store := kv.NewMemoryStore()
	clock := &manualClock{}
	notes := debounce.NewSchedulerWithClock(time.Second, clock)
	return NewCartStore(store, notes), store, clock
}

func testProduct(stock int) models.Product {
	return models.Product{
		Id:        primitive.NewObjectID(),
		Name:      "Oud Royale 50ml",
		Price:     120,
		MainImage: "https://cdn.example.com/oud.jpg",
		Stock:     stock,
	}
}

func TestAddDeduplicatesSameSelection(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()
	product := testProduct(10)

	_, err := cart.Add(ctx, "s1", product, models.CartItemRequest{
		Quantity:        1,
		SelectedOptions: map[string]string{"size": "50ml"},
	})
	require.NoError(t, err)

	item, err := cart.Add(ctx, "s1", product, models.CartItemRequest{
		Quantity:        2,
		SelectedOptions: map[string]string{"size": "50ml"},
	})
	require.NoError(t, err)

	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 3, cart.ItemCount(ctx, "s1"))
}

func TestAddNormalizesSelectionBeforeDedup(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()
	product := testProduct(10)

	_, err := cart.Add(ctx, "s1", product, models.CartItemRequest{
		Quantity:        1,
		SelectedOptions: map[string]string{"size": "50ml", "wrap": "gold"},
	})
	require.NoError(t, err)

	// Same selection with padding and an empty value must land on the same line.
	_, err = cart.Add(ctx, "s1", product, models.CartItemRequest{
		Quantity:        1,
		SelectedOptions: map[string]string{"wrap": " gold ", "size": "  50ml", "engraving": ""},
	})
	require.NoError(t, err)

	assert.Len(t, cart.Load(ctx, "s1"), 1)
}

func TestAddDistinctSelectionsCreateSeparateLines(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()
	product := testProduct(10)

	_, err := cart.Add(ctx, "s1", product, models.CartItemRequest{
		Quantity:        1,
		SelectedOptions: map[string]string{"size": "50ml"},
	})
	require.NoError(t, err)

	_, err = cart.Add(ctx, "s1", product, models.CartItemRequest{
		Quantity:        1,
		SelectedOptions: map[string]string{"size": "100ml"},
	})
	require.NoError(t, err)

	assert.Len(t, cart.Load(ctx, "s1"), 2)
}

func TestAddRejectsQuantityBelowOne(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	_, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 0})
	assert.Error(t, err)
	assert.Empty(t, cart.Load(ctx, "s1"))
}

func TestAddEnforcesStock(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()
	product := testProduct(2)

	_, err := cart.Add(ctx, "s1", product, models.CartItemRequest{Quantity: 2})
	require.NoError(t, err)

	_, err = cart.Add(ctx, "s1", product, models.CartItemRequest{Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestAddEnforcesQuantityCeiling(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	// Zero stock means untracked; only the hard ceiling applies.
	_, err := cart.Add(ctx, "s1", testProduct(0), models.CartItemRequest{Quantity: 1001})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot exceed")
	assert.Empty(t, cart.Load(ctx, "s1"))
}

func TestUpdateQuantityBelowOneIsNoop(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, cart.UpdateQuantity(ctx, "s1", item.Id, 0))
	require.NoError(t, cart.UpdateQuantity(ctx, "s1", item.Id, -5))

	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	err := cart.UpdateQuantity(ctx, "s1", "nope", 2)
	assert.Error(t, err)
}

func TestUpdateOptionsMergesShallow(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{
		Quantity:        1,
		SelectedOptions: map[string]string{"size": "50ml", "wrap": "gold"},
	})
	require.NoError(t, err)

	err = cart.UpdateOptions(ctx, "s1", item.Id, map[string]string{"wrap": "silver", "engraving": "A"}, nil)
	require.NoError(t, err)

	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, "50ml", items[0].SelectedOptions["size"])
	assert.Equal(t, "silver", items[0].SelectedOptions["wrap"])
	assert.Equal(t, "A", items[0].SelectedOptions["engraving"])
}

func TestCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	cart, store, _ := newTestCartStore()

	require.NoError(t, store.Set(ctx, "cart:s1", "{not json"))
	assert.Empty(t, cart.Load(ctx, "s1"))

	// The cart stays usable after corruption.
	_, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, cart.Load(ctx, "s1"), 1)
}

func TestLegacyKeyMigration(t *testing.T) {
	ctx := context.Background()
	cart, store, _ := newTestCartStore()

	legacy := `[{"id":"old-1","productId":"64a000000000000000000001","name":"Archived","unitPrice":10,"stock":5,"quantity":2}]`
	require.NoError(t, store.Set(ctx, "cartItems:s1", legacy))

	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, "old-1", items[0].Id)

	// Legacy key is gone, canonical key holds the data.
	_, err := store.Get(ctx, "cartItems:s1")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	_, err = store.Get(ctx, "cart:s1")
	assert.NoError(t, err)

	// Second load is served from the canonical key.
	assert.Len(t, cart.Load(ctx, "s1"), 1)
}

func TestOnChangeReportsItemCount(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	var counts []int
	cart.OnChange(func(c CartChange) {
		counts = append(counts, c.ItemCount)
	})

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, cart.UpdateQuantity(ctx, "s1", item.Id, 5))
	require.NoError(t, cart.Remove(ctx, "s1", item.Id))

	assert.Equal(t, []int{2, 5, 0}, counts)
}

func TestNoteIsDebounced(t *testing.T) {
	ctx := context.Background()
	cart, _, clock := newTestCartStore()

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	for _, note := range []string{"h", "ha", "hap", "happy birthday"} {
		n := note
		require.NoError(t, cart.UpdateAttachments(ctx, "s1", item.Id, models.AttachmentsPatch{Note: &n}))
	}

	// Nothing persisted until the window elapses.
	items := cart.Load(ctx, "s1")
	assert.Nil(t, items[0].Attachments)

	clock.fire()

	items = cart.Load(ctx, "s1")
	require.NotNil(t, items[0].Attachments)
	assert.Equal(t, "happy birthday", items[0].Attachments.Note)
}

func TestNoteFlushDoesNotClobberInterleavedWrites(t *testing.T) {
	ctx := context.Background()
	cart, _, clock := newTestCartStore()

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	note := "gift note"
	require.NoError(t, cart.UpdateAttachments(ctx, "s1", item.Id, models.AttachmentsPatch{Note: &note}))

	// Quantity changes while the note is still pending.
	require.NoError(t, cart.UpdateQuantity(ctx, "s1", item.Id, 7))

	clock.fire()

	items := cart.Load(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
	require.NotNil(t, items[0].Attachments)
	assert.Equal(t, "gift note", items[0].Attachments.Note)
}

func TestImagesPersistImmediately(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	patch := models.AttachmentsPatch{Images: []string{"https://cdn.example.com/a.jpg"}}
	require.NoError(t, cart.UpdateAttachments(ctx, "s1", item.Id, patch))

	items := cart.Load(ctx, "s1")
	require.NotNil(t, items[0].Attachments)
	assert.Equal(t, patch.Images, items[0].Attachments.Images)
}

func TestRemoveCancelsPendingNote(t *testing.T) {
	ctx := context.Background()
	cart, _, clock := newTestCartStore()

	item, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	note := "late note"
	require.NoError(t, cart.UpdateAttachments(ctx, "s1", item.Id, models.AttachmentsPatch{Note: &note}))
	require.NoError(t, cart.Remove(ctx, "s1", item.Id))

	clock.fire()
	assert.Empty(t, cart.Load(ctx, "s1"))
}

func TestClearEmptiesCart(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	_, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, cart.Clear(ctx, "s1"))
	assert.Empty(t, cart.Load(ctx, "s1"))
	assert.Equal(t, 0, cart.ItemCount(ctx, "s1"))
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCartStore()

	_, err := cart.Add(ctx, "s1", testProduct(10), models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	assert.Empty(t, cart.Load(ctx, "s2"))
}
