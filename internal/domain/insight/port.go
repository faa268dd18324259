package insight

import "context"

// Repository port for persisting and querying insights
type Repository interface {
	Save(ctx context.Context, in *Insight) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Insight, error)
	LatestByDataset(ctx context.Context, tenant string, datasetID string) (*Insight, error)
}
