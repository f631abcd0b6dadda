package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/debounce"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	cartKeyPrefix = "cart:"
	// Key used by the previous storage schema; migrated on first load.
	legacyCartKeyPrefix = "cartItems:"
)

// CartChange is delivered to observers after every persisted mutation.
// ItemCount is the sum of quantities, what a header badge displays.
type CartChange struct {
	SessionID string
	ItemCount int
}

// CartStoreService owns the canonical line-item list for each cart session.
// Every mutation persists the full list under the canonical key and notifies
// observers. Mutations are serialized by a single mutex, so read-after-write
// within a session is always consistent.
type CartStoreService struct {
	mu    sync.Mutex
	store kv.Store
	notes *debounce.Scheduler

	subMu sync.RWMutex
	subs  []func(CartChange)
}

func NewCartStore(store kv.Store, notes *debounce.Scheduler) *CartStoreService {
	return &CartStoreService{store: store, notes: notes}
}

// OnChange registers an observer for cart-changed notifications. Observers
// are invoked synchronously after the mutation is persisted.
func (s *CartStoreService) OnChange(fn func(CartChange)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Load reads the persisted cart. A missing or corrupt snapshot yields an
// empty cart, never an error. The first load migrates any data left under
// the legacy storage key.
func (s *CartStoreService) Load(ctx context.Context, sessionID string) []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadItems(ctx, sessionID)
}

// ItemCount returns the sum of quantities across the session's cart.
func (s *CartStoreService) ItemCount(ctx context.Context, sessionID string) int {
	return countItems(s.Load(ctx, sessionID))
}

// Add appends a new line item, or increments quantity when an item with the
// same product and normalized option selection already exists.
func (s *CartStoreService) Add(ctx context.Context, sessionID string, product models.Product, req models.CartItemRequest) (models.LineItem, error) {
	if req.Quantity < 1 {
		return models.LineItem{}, errors.New("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, sessionID)
	now := time.Now()

	selected := models.NormalizeOptions(req.SelectedOptions)
	dedupKey := models.CartDedupKey(product.Id, selected)

	for i := range items {
		if items[i].DedupKey() != dedupKey {
			continue
		}
		newQuantity := items[i].Quantity + req.Quantity
		if newQuantity > common.MAX_CART_QUANTITY {
			return models.LineItem{}, fmt.Errorf("quantity cannot exceed %d", common.MAX_CART_QUANTITY)
		}
		if items[i].Stock > 0 && newQuantity > items[i].Stock {
			return models.LineItem{}, fmt.Errorf("insufficient stock. Available: %d, Requested: %d", items[i].Stock, newQuantity)
		}
		items[i].Quantity = newQuantity
		items[i].ModifiedAt = now
		if err := s.persist(ctx, sessionID, items); err != nil {
			return models.LineItem{}, err
		}
		util.CartOperations.WithLabelValues("add").Inc()
		return items[i], nil
	}

	if req.Quantity > common.MAX_CART_QUANTITY {
		return models.LineItem{}, fmt.Errorf("quantity cannot exceed %d", common.MAX_CART_QUANTITY)
	}
	if product.Stock > 0 && req.Quantity > product.Stock {
		return models.LineItem{}, fmt.Errorf("insufficient stock. Available: %d, Requested: %d", product.Stock, req.Quantity)
	}

	item := models.LineItem{
		Id:              uuid.NewString(),
		ProductId:       product.Id,
		Name:            product.Name,
		UnitPrice:       product.Price,
		OriginalPrice:   product.OriginalPrice,
		Image:           product.MainImage,
		Stock:           product.Stock,
		Options:         product.Options,
		Quantity:        req.Quantity,
		SelectedOptions: selected,
		OptionsPricing:  filterOptionsPricing(req.OptionsPricing, selected),
		Attachments:     req.Attachments,
		AddedAt:         now,
		ModifiedAt:      now,
	}
	items = append(items, item)

	if err := s.persist(ctx, sessionID, items); err != nil {
		return models.LineItem{}, err
	}
	util.CartOperations.WithLabelValues("add").Inc()
	return item, nil
}

// UpdateQuantity sets a new quantity. Values below 1 are a no-op, not a
// removal.
func (s *CartStoreService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if quantity > common.MAX_CART_QUANTITY {
		return fmt.Errorf("quantity cannot exceed %d", common.MAX_CART_QUANTITY)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, sessionID)
	for i := range items {
		if items[i].Id != itemID {
			continue
		}
		if items[i].Stock > 0 && quantity > items[i].Stock {
			return fmt.Errorf("insufficient stock. Available: %d, Requested: %d", items[i].Stock, quantity)
		}
		items[i].Quantity = quantity
		items[i].ModifiedAt = time.Now()
		util.CartOperations.WithLabelValues("update_quantity").Inc()
		return s.persist(ctx, sessionID, items)
	}

	return errors.New("cart item not found")
}

// UpdateOptions shallow-merges the patch into the item's selected options:
// new keys added, existing keys overwritten, untouched keys preserved.
// Persisted synchronously.
func (s *CartStoreService) UpdateOptions(ctx context.Context, sessionID, itemID string, patch map[string]string, pricing map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, sessionID)
	for i := range items {
		if items[i].Id != itemID {
			continue
		}
		if items[i].SelectedOptions == nil {
			items[i].SelectedOptions = make(map[string]string)
		}
		for k, v := range models.NormalizeOptions(patch) {
			items[i].SelectedOptions[k] = v
		}
		if len(pricing) > 0 {
			if items[i].OptionsPricing == nil {
				items[i].OptionsPricing = make(map[string]float64)
			}
			for k, v := range filterOptionsPricing(pricing, items[i].SelectedOptions) {
				items[i].OptionsPricing[k] = v
			}
		}
		items[i].ModifiedAt = time.Now()
		util.CartOperations.WithLabelValues("update_options").Inc()
		return s.persist(ctx, sessionID, items)
	}

	return errors.New("cart item not found")
}

// UpdateAttachments merges the patch into the item's attachments. Image
// lists persist immediately; free-text note edits are coalesced through the
// debounce window so keystrokes don't each trigger a write.
func (s *CartStoreService) UpdateAttachments(ctx context.Context, sessionID, itemID string, patch models.AttachmentsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, sessionID)
	for i := range items {
		if items[i].Id != itemID {
			continue
		}

		if patch.Images != nil {
			if items[i].Attachments == nil {
				items[i].Attachments = &models.Attachments{}
			}
			items[i].Attachments.Images = patch.Images
			items[i].ModifiedAt = time.Now()
			if err := s.persist(ctx, sessionID, items); err != nil {
				return err
			}
		}

		if patch.Note != nil {
			note := *patch.Note
			s.notes.Schedule(noteDebounceKey(sessionID, itemID), func() {
				s.flushNote(sessionID, itemID, note)
			})
		}

		util.CartOperations.WithLabelValues("update_attachments").Inc()
		return nil
	}

	return errors.New("cart item not found")
}

// Remove deletes the item and persists.
func (s *CartStoreService) Remove(ctx context.Context, sessionID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, sessionID)
	for i := range items {
		if items[i].Id != itemID {
			continue
		}
		s.notes.Cancel(noteDebounceKey(sessionID, itemID))
		items = append(items[:i], items[i+1:]...)
		util.CartOperations.WithLabelValues("remove").Inc()
		return s.persist(ctx, sessionID, items)
	}

	return errors.New("cart item not found")
}

// Clear empties the cart. Successful checkout ends with the same call.
func (s *CartStoreService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	util.CartOperations.WithLabelValues("clear").Inc()
	return s.persist(ctx, sessionID, nil)
}

// Replace overwrites the session's cart with an authoritative list, used
// after a remote merge.
func (s *CartStoreService) Replace(ctx context.Context, sessionID string, items []models.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, sessionID, items)
}

// flushNote runs when the debounce window elapses: it re-reads the current
// list and applies only the note, so writes persisted in the meantime are
// never clobbered by a stale snapshot.
func (s *CartStoreService) flushNote(sessionID, itemID, note string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.loadItems(ctx, sessionID)
	for i := range items {
		if items[i].Id != itemID {
			continue
		}
		if items[i].Attachments == nil {
			items[i].Attachments = &models.Attachments{}
		}
		items[i].Attachments.Note = note
		items[i].ModifiedAt = time.Now()
		if err := s.persist(ctx, sessionID, items); err != nil {
			util.LogError("failed to persist debounced cart note", err)
		}
		return
	}
}

func (s *CartStoreService) loadItems(ctx context.Context, sessionID string) []models.LineItem {
	raw, err := s.store.Get(ctx, cartKeyPrefix+sessionID)
	if err == kv.ErrNotFound {
		return s.migrateLegacy(ctx, sessionID)
	}
	if err != nil {
		util.LogError("failed to read cart snapshot", err)
		return nil
	}

	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Corruption is treated as "no cart", never a fatal error.
		util.LogWarning("corrupt cart snapshot, starting empty")
		return nil
	}
	return items
}

// migrateLegacy moves data found under the prior schema's key to the
// canonical key, then removes the legacy key. One-time and idempotent.
func (s *CartStoreService) migrateLegacy(ctx context.Context, sessionID string) []models.LineItem {
	raw, err := s.store.Get(ctx, legacyCartKeyPrefix+sessionID)
	if err != nil {
		return nil
	}

	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		items = nil
	}

	if len(items) > 0 {
		if err := s.store.Set(ctx, cartKeyPrefix+sessionID, raw); err != nil {
			util.LogError("failed to migrate legacy cart key", err)
			return items
		}
	}
	if err := s.store.Delete(ctx, legacyCartKeyPrefix+sessionID); err != nil {
		util.LogError("failed to remove legacy cart key", err)
	}
	return items
}

func (s *CartStoreService) persist(ctx context.Context, sessionID string, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "marshal cart snapshot")
	}
	if err := s.store.Set(ctx, cartKeyPrefix+sessionID, string(data)); err != nil {
		return errors.Wrap(err, "persist cart snapshot")
	}

	s.notify(CartChange{SessionID: sessionID, ItemCount: countItems(items)})
	return nil
}

func (s *CartStoreService) notify(change CartChange) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subs {
		fn(change)
	}
}

func countItems(items []models.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func noteDebounceKey(sessionID, itemID string) string {
	return sessionID + "/" + itemID + "/note"
}

// filterOptionsPricing drops pricing entries for options that were not
// actually chosen; only chosen options can carry a surcharge.
func filterOptionsPricing(pricing map[string]float64, selected map[string]string) map[string]float64 {
	if len(pricing) == 0 {
		return nil
	}
	filtered := make(map[string]float64, len(pricing))
	for name, delta := range pricing {
		if delta < 0 {
			continue
		}
		if _, ok := selected[name]; ok {
			filtered[name] = delta
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}
