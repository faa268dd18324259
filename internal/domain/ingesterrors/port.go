package ingesterrors

import (
	"context"
)

// Repository defines persistence for ingest errors
type Repository interface {
	Save(ctx context.Context, e *IngestError) error
	ListByDataset(ctx context.Context, tenant string, datasetID string, limit int) ([]*IngestError, error)
}
