// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ammerola/smartstock-be/internal/adapters/documents"
	"github.com/ammerola/smartstock-be/internal/adapters/persistence"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/internal/pkg/config"
	"github.com/ammerola/smartstock-be/internal/pkg/logger"
)

// seedOptions are the parsed command line flags
type seedOptions struct {
	itemsFile    string
	movementFile string
	source       string
	reset        bool
	dryRun       bool
}

// seedSummary is printed when the run finishes
type seedSummary struct {
	Backend      string
	Created      []domain.InventoryItem
	Applied      int
	Items        int
	Transactions int
}

func main() {
	var (
		itemsFile    = flag.String("items", "", "JSON file with an array of items to import")
		movementFile = flag.String("movements", "", "Excel workbook of stock movements (sku, type, quantity)")
		source       = flag.String("source", "SEED", "Source recorded on imported movements")
		logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		reset        = flag.Bool("reset", false, "Start from the built-in seed set and an empty ledger")
		dryRun       = flag.Bool("dry-run", false, "Preview changes without saving")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	backend, err := persistence.Open(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to open persistence backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	summary, err := seed(ctx, backend.Snapshots, seedOptions{
		itemsFile:    *itemsFile,
		movementFile: *movementFile,
		source:       *source,
		reset:        *reset,
		dryRun:       *dryRun,
	}, slogger)
	if err != nil {
		slogger.Error("seed operation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printSummary(summary, *dryRun)

	slogger.Info("seed operation completed",
		slog.String("backend", summary.Backend),
		slog.Int("items_created", len(summary.Created)),
		slog.Int("movements_applied", summary.Applied))
}

// seed loads the current state from target, applies the requested imports
// and saves the result unless opts.dryRun is set.
func seed(ctx context.Context, target ports.SnapshotStore, opts seedOptions, logger *slog.Logger) (*seedSummary, error) {
	st := store.New(logger)
	if err := st.Load(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to load current state: %w", err)
	}

	if opts.reset {
		if err := st.Mutate(ctx, func(tx *store.Tx) error {
			tx.Reset(domain.SeedItems(tx.Now()))
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to reset: %w", err)
		}
		logger.Info("state reset to seed set")
	}

	imp := importer.New(st, logger)
	summary := &seedSummary{Backend: target.Name()}

	if opts.itemsFile != "" {
		candidates, err := readCandidates(opts.itemsFile)
		if err != nil {
			return nil, err
		}
		if summary.Created, err = imp.ImportItems(ctx, candidates); err != nil {
			return nil, fmt.Errorf("failed to import items: %w", err)
		}
	}

	if opts.movementFile != "" {
		data, err := os.ReadFile(opts.movementFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", opts.movementFile, err)
		}
		records, err := documents.ParseTransactionSheet(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", opts.movementFile, err)
		}
		if summary.Applied, err = imp.ApplyTransactions(ctx, opts.source, records); err != nil {
			return nil, fmt.Errorf("failed to apply movements: %w", err)
		}
	}

	snap := st.Snapshot()
	summary.Items = len(snap.Items)
	summary.Transactions = len(snap.Transactions)

	if opts.dryRun {
		return summary, nil
	}
	if err := target.Save(ctx, snap.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return summary, nil
}

func readCandidates(path string) ([]importer.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var candidates []importer.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return candidates, nil
}

func printSummary(s *seedSummary, dryRun bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING OPERATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Backend:           %s\n", s.Backend)
	fmt.Printf("Items Created:     %d\n", len(s.Created))
	fmt.Printf("Movements Applied: %d\n", s.Applied)
	fmt.Printf("Items Total:       %d\n", s.Items)
	fmt.Printf("Ledger Entries:    %d\n", s.Transactions)

	if len(s.Created) > 0 {
		fmt.Printf("\nCreated (%d items):\n", len(s.Created))
		for _, item := range s.Created {
			fmt.Printf("  - %s: %s (%d)\n", item.SKU, item.Name, item.Quantity)
		}
	}

	if dryRun {
		fmt.Println("\n[DRY RUN] No changes were saved")
	}
}
