// Package store owns the inventory items and the ledger. All changes go
// through Mutate, which stages them on a copy and swaps it in on success.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ledger"
)

// Snapshot is a deep copy of the state at a given version.
type Snapshot struct {
	Version uint64 `json:"version"`
	domain.Snapshot
}

// Loader reads the persisted state. found is false when nothing has been
// persisted yet.
type Loader interface {
	Load(ctx context.Context) (snap *domain.Snapshot, found bool, err error)
}

// Listener is called after every committed mutation. Under concurrent
// mutations listeners may observe snapshots out of order; use Version.
type Listener func(ctx context.Context, snap Snapshot)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source for items and transactions.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Store holds the live state.
type Store struct {
	mu      sync.RWMutex
	items   []domain.InventoryItem
	ledger  *ledger.Ledger
	version uint64

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// New creates a store seeded with the default item set. Call Load to
// replace it with persisted state.
func New(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		ledger:    ledger.New(),
		listeners: make(map[int]Listener),
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    logger.With(slog.String("component", "store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = domain.SeedItems(s.now())
	return s
}

// Load initializes the state from loader. When nothing is persisted the
// seed items and an empty ledger are used.
func (s *Store) Load(ctx context.Context, loader Loader) error {
	var (
		snap  *domain.Snapshot
		found bool
	)
	if loader != nil {
		var err error
		snap, found, err = loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found || snap == nil {
		s.items = domain.SeedItems(s.now())
		s.ledger = ledger.New()
		s.logger.InfoContext(ctx, "no persisted snapshot, using seed items",
			slog.Int("items", len(s.items)))
		return nil
	}

	s.items = cloneItems(snap.Items)
	s.ledger = ledger.Restore(snap.Transactions)
	s.logger.InfoContext(ctx, "snapshot loaded",
		slog.Int("items", len(s.items)),
		slog.Int("transactions", s.ledger.Len()))
	return nil
}

// Mutate runs fn against a staged copy of the state. If fn returns an
// error nothing changes; otherwise the copy replaces the live state, the
// version increments and listeners are notified.
func (s *Store) Mutate(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	tx := &Tx{
		items: cloneItems(s.items),
		now:   s.now().UTC(),
		newID: s.newID,
	}

	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}

	if !tx.dirty {
		s.mu.Unlock()
		return nil
	}

	s.items = tx.items
	if tx.reset {
		s.ledger = ledger.New()
	}
	s.ledger.Append(tx.pending...)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(ctx, snap)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Items returns a copy of the items in insertion order.
func (s *Store) Items() []domain.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Item returns a copy of the item with the given id.
func (s *Store) Item(id string) (domain.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.InventoryItem{}, false
}

// Transactions returns a copy of the ledger, newest first.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Entries()
}

// Version returns the number of committed mutations since startup.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers l and returns a function removing it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(ctx context.Context, snap Snapshot) {
	s.listenersMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(ctx, snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version: s.version,
		Snapshot: domain.Snapshot{
			Items:        cloneItems(s.items),
			Transactions: s.ledger.Entries(),
		},
	}
}

func cloneItems(items []domain.InventoryItem) []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(items))
	copy(out, items)
	return out
}
