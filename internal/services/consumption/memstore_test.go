package consumption

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pantrymind/pantrymind/internal/models"
)

// memStore is an in-memory Store with the same all-or-nothing commit rules as
// DBStore.
type memStore struct {
	mu      sync.Mutex
	items   map[string]*models.InventoryItem
	batches map[string]*models.InventoryBatch
	commits []*Commit

	// commitErr, when set, fails every commit without applying it.
	commitErr error

	// beforeCommit runs once per commit, before versions are checked.
	beforeCommit func()
}

func newMemStore() *memStore {
	return &memStore{
		items:   make(map[string]*models.InventoryItem),
		batches: make(map[string]*models.InventoryBatch),
	}
}

func (s *memStore) addItem(item *models.InventoryItem) *models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return item
}

func (s *memStore) addBatch(b *models.InventoryBatch) *models.InventoryBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = b
	return b
}

func (s *memStore) snapshot() map[string]models.InventoryBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.InventoryBatch, len(s.batches))
	for id, b := range s.batches {
		out[id] = *b
	}
	return out
}

func (s *memStore) batch(id string) models.InventoryBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.batches[id]
}

func (s *memStore) GetItem(_ context.Context, itemID string) (*models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return item, nil
}

func (s *memStore) ItemsForKitchen(_ context.Context, kitchenID string) ([]*models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.InventoryItem
	for _, item := range s.items {
		if item.KitchenID == kitchenID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) BatchesForItem(_ context.Context, itemID string) ([]*models.InventoryBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.InventoryBatch
	for _, b := range s.batches {
		if b.ItemID == itemID && b.Status == models.BatchStatusActive {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Commit(ctx context.Context, c *Commit) error {
	if s.beforeCommit != nil {
		s.beforeCommit()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.commitErr != nil {
		return s.commitErr
	}

	for _, p := range c.Plans {
		for _, a := range p.Allocations {
			b := s.batches[a.BatchID]
			if b == nil || b.Version != a.Version || b.Status != models.BatchStatusActive {
				return fmt.Errorf("%w: %s", ErrStaleBatch, a.BatchID)
			}
		}
	}

	for _, p := range c.Plans {
		for _, a := range p.Allocations {
			b := s.batches[a.BatchID]
			b.Quantity = a.QuantityRemainingAfter
			b.Version++
			if b.Quantity.IsZero() {
				b.Status = models.BatchStatusExhausted
			}
		}
	}
	s.commits = append(s.commits, c)
	return nil
}

// drawDirect simulates another writer taking qty from a batch.
func (s *memStore) drawDirect(batchID, qty string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.batches[batchID]
	b.Quantity = b.Quantity.Sub(dec(qty))
	b.Version++
	if b.Quantity.IsZero() {
		b.Status = models.BatchStatusExhausted
	}
}
