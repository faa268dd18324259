package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/bryanwahyu/datalens/internal/domain/ingesterrors"
)

type IngestErrorRepository struct {
	db *sql.DB
}

func NewIngestErrorRepository(db *sql.DB) *IngestErrorRepository {
	return &IngestErrorRepository{db: db}
}

func (r *IngestErrorRepository) Save(ctx context.Context, e *domain.IngestError) error {
	const q = `
INSERT INTO dataset_ingest_errors
  (tenant_id, dataset_id, file_name, phase, message, details_json, created_at)
VALUES (?,?,?,?,?,?,?)
`
	tenant := stringOrDash(e.TenantID)
	ds := stringOrDash(e.DatasetID)
	file := stringOrDash(e.FileName)
	phase := stringOrDash(e.Phase)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	details := e.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, tenant, ds, file, phase, msg, details, created)
	return err
}

func (r *IngestErrorRepository) ListByDataset(ctx context.Context, tenant string, datasetID string, limit int) ([]*domain.IngestError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, dataset_id, file_name, phase, message, details_json, created_at
FROM dataset_ingest_errors
WHERE tenant_id = ? AND dataset_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, datasetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.IngestError
	for rows.Next() {
		var e domain.IngestError
		var created time.Time
		if err := rows.Scan(&e.ID, &e.TenantID, &e.DatasetID, &e.FileName, &e.Phase, &e.Message, &e.DetailsJSON, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}
