// Package ledger holds the append-only stock movement log.
package ledger

import "github.com/ammerola/smartstock-be/internal/core/domain"

// Ledger keeps transactions newest first. It has no update or delete.
// Ledger is not safe for concurrent use; the store serializes access.
type Ledger struct {
	entries []domain.Transaction
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Restore builds a ledger from entries already ordered newest first.
func Restore(entries []domain.Transaction) *Ledger {
	l := &Ledger{entries: make([]domain.Transaction, len(entries))}
	copy(l.entries, entries)
	return l
}

// Append prepends entries as one block so the newest batch comes first.
// Within a batch the entries keep the order they were given in.
func (l *Ledger) Append(entries ...domain.Transaction) {
	if len(entries) == 0 {
		return
	}
	merged := make([]domain.Transaction, 0, len(entries)+len(l.entries))
	merged = append(merged, entries...)
	l.entries = append(merged, l.entries...)
}

// Entries returns a copy of the log, newest first.
func (l *Ledger) Entries() []domain.Transaction {
	out := make([]domain.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return Restore(l.entries)
}
