package dataset

import (
	"context"
	"io"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, d *Dataset) error
	Get(ctx context.Context, tenant string, id DatasetID) (*Dataset, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Dataset, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedResult, error)
	UpdateStatus(ctx context.Context, tenant string, id DatasetID, status Status) error
}

// ObjectStore port (interface untuk penyimpanan file mentah)
type ObjectStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}
