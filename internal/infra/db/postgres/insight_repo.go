package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/datalens/internal/domain/insight"
)

type InsightRepository struct {
	db *sql.DB
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Save inserts or updates an insight record
func (r *InsightRepository) Save(ctx context.Context, in *domain.Insight) error {
	const q = `
INSERT INTO dataset_insights
  (id, tenant_id, dataset_id, question, result_json, source, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  tenant_id=EXCLUDED.tenant_id,
  dataset_id=EXCLUDED.dataset_id,
  question=EXCLUDED.question,
  result_json=EXCLUDED.result_json,
  source=EXCLUDED.source;
`
	tenant := stringOrDash(in.TenantID)
	question := stringOrDash(in.Question)
	result := in.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, in.ID, tenant, in.DatasetID, question, result, in.Source, createdAt)
	return err
}

// Paginate returns a page of insight records ordered by created_at desc
func (r *InsightRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Insight, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, dataset_id, question, result_json, source, created_at
FROM dataset_insights
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Insight
	for rows.Next() {
		var in domain.Insight
		var created time.Time
		if err := rows.Scan(&in.ID, &in.TenantID, &in.DatasetID, &in.Question, &in.Result, &in.Source, &created); err != nil {
			return nil, err
		}
		in.CreatedAt = created
		out = append(out, &in)
	}
	return out, rows.Err()
}

// LatestByDataset returns the latest insight for a given dataset
func (r *InsightRepository) LatestByDataset(ctx context.Context, tenant string, datasetID string) (*domain.Insight, error) {
	const q = `
SELECT id, tenant_id, dataset_id, question, result_json, source, created_at
FROM dataset_insights
WHERE tenant_id=$1 AND dataset_id=$2
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, datasetID)
	var in domain.Insight
	var created time.Time
	if err := row.Scan(&in.ID, &in.TenantID, &in.DatasetID, &in.Question, &in.Result, &in.Source, &created); err != nil {
		return nil, err
	}
	in.CreatedAt = created
	return &in, nil
}
