package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType carries the direction of a stock movement.
type TransactionType string

const (
	TransactionIn       TransactionType = "IN"
	TransactionOut      TransactionType = "OUT"
	TransactionAdjust   TransactionType = "ADJUST"
	TransactionPurchase TransactionType = "PURCHASE"
)

// IsValid reports whether t is a known movement type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionAdjust, TransactionPurchase:
		return true
	}
	return false
}

// ParseTransactionType normalizes s ("in", " OUT ") into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is an immutable ledger record of one stock movement.
// Quantity is always an absolute value; the direction lives in Type.
type Transaction struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
	Note      string          `json:"note"`
}

// Snapshot is the persisted state: items in insertion order and
// transactions newest first.
type Snapshot struct {
	Items        []InventoryItem `json:"items"`
	Transactions []Transaction   `json:"transactions"`
}
