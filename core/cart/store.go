package cart

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/sokoni/core"
)

// persisted keys
const (
	itemsKey       = "cart_items"
	selectedIDsKey = "cart_selected_ids" // single-shot "buy now" pre-seed
)

// Store owns the cart items and the checkout selection; it is the only
// writer of both. Persistence is best-effort and always the last step of an
// operation, so a failing store never leaves the cart inconsistent.
type Store struct {
	mut      sync.Mutex
	kv       core.KVStore
	logger   core.Logger
	items    []Item
	selected map[string]bool
}

func NewStore(kv core.KVStore, logger core.Logger) *Store {
	s := &Store{kv: kv, logger: logger}
	s.load()
	return s
}

// load reads the persisted cart, falling back to the built-in seed list when
// the payload is missing, malformed or empty. It never fails the caller.
func (s *Store) load() {
	data, err := s.kv.Read(itemsKey)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			s.logger.Warn("cart: reading persisted items", err)
		}
		s.items = seedItems()
	} else if err = json.Unmarshal(data, &s.items); err != nil {
		s.logger.Warn("cart: persisted items malformed", err)
		s.items = seedItems()
	} else if len(s.items) == 0 {
		s.items = seedItems()
	}

	// everything starts selected
	s.selected = make(map[string]bool, len(s.items))
	for _, it := range s.items {
		s.selected[it.ID] = true
	}
	s.applyBuyNow()
}

// applyBuyNow narrows the initial selection to the persisted "buy now" ids,
// if any. The key is single-shot: it is cleared once consumed.
func (s *Store) applyBuyNow() {
	data, err := s.kv.Read(selectedIDsKey)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			s.logger.Warn("cart: reading buy-now selection", err)
		}
		return
	}
	var ids []string
	if err = json.Unmarshal(data, &ids); err != nil {
		s.logger.Warn("cart: buy-now selection malformed", err)
		return
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for id := range s.selected {
		if !wanted[id] {
			delete(s.selected, id)
		}
	}
	if err = s.kv.Delete(selectedIDsKey); err != nil {
		s.logger.Warn("cart: clearing buy-now selection", err)
	}
}

// Add places `it` in the cart. Adding an id already present is a no-op.
// It reports whether the cart changed.
func (s *Store) Add(it Item) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	for _, existing := range s.items {
		if existing.ID == it.ID {
			return false
		}
	}
	s.mutate(append(s.copyItems(), it))
	return true
}

// Remove deletes the item with that id if present; no-op otherwise.
func (s *Store) Remove(id string) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	items := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	if len(items) == len(s.items) {
		return false
	}
	s.mutate(items)
	return true
}

// mutate swaps the item list in, reconciles the selection against the new
// list and persists. Must be called with the mutex held.
func (s *Store) mutate(items []Item) {
	prevIDs := ids(s.items)
	s.items = items
	s.selected = reconcileSelection(s.selected, prevIDs, ids(s.items))
	s.persist()
}

// Toggle flips the selection state of `id`. Toggling an id not in the cart is
// a no-op; stale UI references must not grow the selection.
func (s *Store) Toggle(id string) bool {
	s.mut.Lock()
	defer s.mut.Unlock()

	for _, it := range s.items {
		if it.ID == id {
			if s.selected[id] {
				delete(s.selected, id)
			} else {
				s.selected[id] = true
			}
			return true
		}
	}
	return false
}

// Items returns a copy of the cart contents.
func (s *Store) Items() []Item {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.copyItems()
}

// SelectedIDs returns the ids marked for checkout, in cart order.
func (s *Store) SelectedIDs() []string {
	s.mut.Lock()
	defer s.mut.Unlock()

	out := make([]string, 0, len(s.selected))
	for _, it := range s.items {
		if s.selected[it.ID] {
			out = append(out, it.ID)
		}
	}
	return out
}

func (s *Store) IsSelected(id string) bool {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.selected[id]
}

// Totals aggregates prices over the current selection.
func (s *Store) Totals() Totals {
	s.mut.Lock()
	defer s.mut.Unlock()
	return ComputeTotals(s.items, s.selected)
}

func (s *Store) copyItems() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// persist writes the full item list out. Failures are swallowed: durability
// is best-effort, not correctness-critical.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("cart: marshalling items", err)
		return
	}
	if err = s.kv.Write(itemsKey, data); err != nil {
		s.logger.Warn("cart: persisting items", errors.Wrap(err, "writing cart_items"))
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
