// internal/adapters/storage/snapshot.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
)

const (
	itemsFile        = "items.json"
	transactionsFile = "transactions.json"
)

// FileSnapshotStore keeps the two collections as JSON files in a
// directory. Each file is replaced atomically; transactions are written
// before items so a crash between the two never leaves items ahead of the
// ledger.
type FileSnapshotStore struct {
	dir    string
	logger *slog.Logger
}

var _ ports.SnapshotStore = (*FileSnapshotStore)(nil)

// NewFileSnapshotStore creates a snapshot store rooted at dir
func NewFileSnapshotStore(dir string, logger *slog.Logger) *FileSnapshotStore {
	return &FileSnapshotStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "file_snapshot")),
	}
}

func (s *FileSnapshotStore) Name() string { return "file" }

// Load reads items.json and transactions.json. A missing items.json means
// nothing was persisted; a missing transactions.json is an empty ledger.
func (s *FileSnapshotStore) Load(ctx context.Context) (*domain.Snapshot, bool, error) {
	itemsData, err := os.ReadFile(filepath.Join(s.dir, itemsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", itemsFile, err)
	}

	txData, err := os.ReadFile(filepath.Join(s.dir, transactionsFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to read %s: %w", transactionsFile, err)
	}

	snap, err := decodeSnapshot(itemsData, txData)
	if err != nil {
		return nil, false, err
	}

	s.logger.InfoContext(ctx, "snapshot loaded",
		slog.String("dir", s.dir),
		slog.Int("items", len(snap.Items)),
		slog.Int("transactions", len(snap.Transactions)))
	return snap, true, nil
}

// Save writes both collections
func (s *FileSnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	itemsData, txData, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(s.dir, transactionsFile), bytes.NewReader(txData)); err != nil {
		return fmt.Errorf("failed to save %s: %w", transactionsFile, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, itemsFile), bytes.NewReader(itemsData)); err != nil {
		return fmt.Errorf("failed to save %s: %w", itemsFile, err)
	}

	s.logger.DebugContext(ctx, "snapshot saved",
		slog.Int("items", len(snap.Items)),
		slog.Int("transactions", len(snap.Transactions)))
	return nil
}

// ObjectSnapshotStore keeps the two collections as JSON objects under a
// key prefix in a FileStorage, normally S3.
type ObjectSnapshotStore struct {
	objects ports.FileStorage
	prefix  string
	name    string
	logger  *slog.Logger
}

var _ ports.SnapshotStore = (*ObjectSnapshotStore)(nil)

// NewObjectSnapshotStore creates a snapshot store writing prefix/items.json
// and prefix/transactions.json. name labels the backend.
func NewObjectSnapshotStore(objects ports.FileStorage, prefix, name string, logger *slog.Logger) *ObjectSnapshotStore {
	return &ObjectSnapshotStore{
		objects: objects,
		prefix:  prefix,
		name:    name,
		logger:  logger.With(slog.String("component", "object_snapshot"), slog.String("backend", name)),
	}
}

func (s *ObjectSnapshotStore) Name() string { return s.name }

// Load reads both objects. A missing items object means nothing was
// persisted.
func (s *ObjectSnapshotStore) Load(ctx context.Context) (*domain.Snapshot, bool, error) {
	itemsData, err := s.objects.Download(ctx, s.key(itemsFile))
	if err != nil {
		if errors.Is(err, ports.ErrObjectNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", itemsFile, err)
	}

	txData, err := s.objects.Download(ctx, s.key(transactionsFile))
	if err != nil && !errors.Is(err, ports.ErrObjectNotFound) {
		return nil, false, fmt.Errorf("failed to read %s: %w", transactionsFile, err)
	}

	snap, err := decodeSnapshot(itemsData, txData)
	if err != nil {
		return nil, false, err
	}

	s.logger.InfoContext(ctx, "snapshot loaded",
		slog.String("prefix", s.prefix),
		slog.Int("items", len(snap.Items)),
		slog.Int("transactions", len(snap.Transactions)))
	return snap, true, nil
}

// Save uploads both objects, transactions first
func (s *ObjectSnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	itemsData, txData, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	if _, err := s.objects.Upload(ctx, s.key(transactionsFile), bytes.NewReader(txData), "application/json"); err != nil {
		return fmt.Errorf("failed to save %s: %w", transactionsFile, err)
	}
	if _, err := s.objects.Upload(ctx, s.key(itemsFile), bytes.NewReader(itemsData), "application/json"); err != nil {
		return fmt.Errorf("failed to save %s: %w", itemsFile, err)
	}
	return nil
}

func (s *ObjectSnapshotStore) key(name string) string {
	return path.Join(s.prefix, name)
}

func encodeSnapshot(snap domain.Snapshot) ([]byte, []byte, error) {
	items := snap.Items
	if items == nil {
		items = []domain.InventoryItem{}
	}
	transactions := snap.Transactions
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	itemsData, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode items: %w", err)
	}
	txData, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode transactions: %w", err)
	}
	return itemsData, txData, nil
}

func decodeSnapshot(itemsData, txData []byte) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Items:        []domain.InventoryItem{},
		Transactions: []domain.Transaction{},
	}
	if err := json.Unmarshal(itemsData, &snap.Items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", itemsFile, err)
	}
	if len(txData) > 0 {
		if err := json.Unmarshal(txData, &snap.Transactions); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", transactionsFile, err)
		}
	}
	return snap, nil
}
