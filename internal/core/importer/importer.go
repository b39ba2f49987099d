// Package importer turns externally parsed rows into store mutations.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/store"
)

const (
	DefaultBrand       = "Unknown"
	DefaultVariant     = "-"
	DefaultLocation    = "Storage"
	DefaultMinQuantity = 5
	optimalHeadroom    = 10
	skuDraws           = 10
	skuRange           = 1000
)

// Candidate is an item parsed from an external source. Zero values are
// replaced by defaults on import.
type Candidate struct {
	SKU      string          `json:"sku,omitempty"`
	Brand    string          `json:"brand"`
	Name     string          `json:"name"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Location string          `json:"location,omitempty"`
}

// Record is one parsed stock movement.
type Record struct {
	SKU      string                 `json:"sku,omitempty"`
	Name     string                 `json:"name,omitempty"`
	Type     domain.TransactionType `json:"type"`
	Quantity int                    `json:"quantity" validate:"min=-1000000000,max=1000000000"`
}

// Option configures an Importer.
type Option func(*Importer)

// WithRand overrides the SKU suffix source; it must return [0, n).
func WithRand(intN func(n int) int) Option {
	return func(i *Importer) { i.intN = intN }
}

// Importer applies bulk rows to the store.
type Importer struct {
	store  *store.Store
	intN   func(n int) int
	logger *slog.Logger
}

// New creates an Importer writing to s.
func New(s *store.Store, logger *slog.Logger, opts ...Option) *Importer {
	i := &Importer{
		store:  s,
		intN:   rand.IntN,
		logger: logger.With(slog.String("component", "importer")),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportItems creates one item per candidate in a single mutation.
// Candidates without a name are skipped. A supplied SKU that is already
// taken fails the whole batch.
func (i *Importer) ImportItems(ctx context.Context, candidates []Candidate) ([]domain.InventoryItem, error) {
	created := make([]domain.InventoryItem, 0, len(candidates))

	err := i.store.Mutate(ctx, func(tx *store.Tx) error {
		created = created[:0]
		for _, c := range candidates {
			if strings.TrimSpace(c.Name) == "" {
				continue
			}

			item := BuildItem(c)
			if item.SKU == "" {
				sku, err := i.generateSKU(tx, item.Brand)
				if err != nil {
					return err
				}
				item.SKU = sku
			}

			saved, err := tx.Create(item)
			if err != nil {
				return fmt.Errorf("failed to import %q: %w", item.Name, err)
			}
			created = append(created, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "items imported",
		slog.Int("candidates", len(candidates)),
		slog.Int("created", len(created)))
	return created, nil
}

// ApplyTransactions matches each record to the first item with the same
// SKU or name and applies it as an IN or OUT movement noted with source.
// Other types and unmatched rows are skipped. It returns the number of
// applied records.
func (i *Importer) ApplyTransactions(ctx context.Context, source string, records []Record) (int, error) {
	note := fmt.Sprintf("bulk update (%s)", source)
	updated := 0

	err := i.store.Mutate(ctx, func(tx *store.Tx) error {
		updated = 0
		for _, r := range records {
			typ, err := domain.ParseTransactionType(string(r.Type))
			if err != nil {
				continue
			}
			q := domain.AbsQuantity(r.Quantity)
			var delta int
			switch typ {
			case domain.TransactionIn:
				delta = q
			case domain.TransactionOut:
				delta = -q
			default:
				continue
			}

			item, ok := tx.FindBySKUOrName(r.SKU, r.Name)
			if !ok {
				continue
			}
			tx.ApplyMovement(store.Movement{
				ItemID: item.ID,
				Delta:  delta,
				Type:   typ,
				Note:   note,
			})
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to apply transactions: %w", err)
	}

	i.logger.InfoContext(ctx, "transactions applied",
		slog.String("source", source),
		slog.Int("records", len(records)),
		slog.Int("updated", updated))
	return updated, nil
}

// BuildItem fills the import defaults into c. The SKU is left empty when
// none was supplied.
func BuildItem(c Candidate) domain.InventoryItem {
	quantity := max(c.Quantity, 0)
	price := c.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	return domain.InventoryItem{
		SKU:             strings.TrimSpace(c.SKU),
		Brand:           orDefault(c.Brand, DefaultBrand),
		Name:            strings.TrimSpace(c.Name),
		Size:            orDefault(c.Size, DefaultVariant),
		Color:           orDefault(c.Color, DefaultVariant),
		Category:        domain.ParseCategory(c.Category),
		Quantity:        quantity,
		MinQuantity:     DefaultMinQuantity,
		OptimalQuantity: quantity + optimalHeadroom,
		Price:           price,
		Location:        orDefault(c.Location, DefaultLocation),
	}
}

// SKUPrefix is the upper-cased first three runes of brand.
func SKUPrefix(brand string) string {
	brand = strings.TrimSpace(brand)
	if utf8.RuneCountInString(brand) > 3 {
		brand = string([]rune(brand)[:3])
	}
	return strings.ToUpper(brand)
}

func (i *Importer) generateSKU(tx *store.Tx, brand string) (string, error) {
	prefix := SKUPrefix(brand)
	for range skuDraws {
		sku := fmt.Sprintf("%s-%d", prefix, i.intN(skuRange))
		if !tx.SKUExists(sku, "") {
			return sku, nil
		}
	}
	return "", fmt.Errorf("%w: no free sku for prefix %s after %d draws", domain.ErrSKUConflict, prefix, skuDraws)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
