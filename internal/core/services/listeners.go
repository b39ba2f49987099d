package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
)

// Persister writes every committed snapshot to a SnapshotStore. Snapshots
// older than the last one saved are skipped.
type Persister struct {
	target  ports.SnapshotStore
	timeout time.Duration
	logger  *slog.Logger

	mu        sync.Mutex
	lastSaved uint64
	saved     bool
}

// NewPersister creates a persister for target. Each save gets its own
// timeout and is not cancelled with the request that caused it.
func NewPersister(target ports.SnapshotStore, timeout time.Duration, logger *slog.Logger) *Persister {
	return &Persister{
		target:  target,
		timeout: timeout,
		logger: logger.With(
			slog.String("component", "persister"),
			slog.String("backend", target.Name())),
	}
}

// OnCommit is a store.Listener
func (p *Persister) OnCommit(ctx context.Context, snap store.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saved && snap.Version <= p.lastSaved {
		p.logger.DebugContext(ctx, "skipping stale snapshot",
			slog.Uint64("version", snap.Version),
			slog.Uint64("last_saved", p.lastSaved))
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.target.Save(saveCtx, snap.Snapshot); err != nil {
		p.logger.ErrorContext(ctx, "failed to persist snapshot",
			slog.Uint64("version", snap.Version),
			slog.String("error", err.Error()))
		return
	}

	p.lastSaved = snap.Version
	p.saved = true
	p.logger.DebugContext(ctx, "snapshot persisted",
		slog.Uint64("version", snap.Version),
		slog.Int("items", len(snap.Items)),
		slog.Int("transactions", len(snap.Transactions)),
		slog.Duration("duration", time.Since(start)))
}

// LedgerMetrics counts new ledger entries per type from committed snapshots
type LedgerMetrics struct {
	metrics *metrics.Metrics

	mu          sync.Mutex
	newestID    string
	lastVersion uint64
}

// NewLedgerMetrics starts counting after the entries already in ledger,
// which is newest first.
func NewLedgerMetrics(m *metrics.Metrics, ledger []domain.Transaction) *LedgerMetrics {
	lm := &LedgerMetrics{metrics: m}
	if len(ledger) > 0 {
		lm.newestID = ledger[0].ID
	}
	return lm
}

// OnCommit is a store.Listener
func (lm *LedgerMetrics) OnCommit(_ context.Context, snap store.Snapshot) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if snap.Version <= lm.lastVersion {
		return
	}
	lm.lastVersion = snap.Version

	var types []string
	for _, entry := range snap.Transactions {
		if entry.ID == lm.newestID {
			break
		}
		types = append(types, string(entry.Type))
	}
	lm.metrics.RecordLedgerEntries(types...)

	lm.newestID = ""
	if len(snap.Transactions) > 0 {
		lm.newestID = snap.Transactions[0].ID
	}
}
