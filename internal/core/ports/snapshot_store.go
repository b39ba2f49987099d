// internal/core/ports/snapshot_store.go
package ports

import (
	"context"

	"github.com/ammerola/smartstock-be/internal/core/domain"
)

// SnapshotStore defines the persistence port for the item and transaction
// collections. Implemented by the file, postgres and s3 adapters.
type SnapshotStore interface {
	// Load returns found=false when nothing has been persisted yet.
	Load(ctx context.Context) (snap *domain.Snapshot, found bool, err error)
	Save(ctx context.Context, snap domain.Snapshot) error
	Name() string
}
