package ports

import (
	"context"

	"cordex/domain/snapshot"
	"cordex/domain/table"
)

// DatasetLoader reads a tabular source file into a raw table.
// The digest identifies the exact bytes read.
type DatasetLoader interface {
	Load(ctx context.Context, path string) (tbl *table.Table, digest string, err error)
}

// SnapshotSource provides read-only access to the current analysis for the UI and API.
// Presentation layers never mutate a snapshot.
type SnapshotSource interface {
	Current(ctx context.Context) (*snapshot.Snapshot, error)
}
