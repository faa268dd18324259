package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/datalens/internal/domain/dataset"
)

type DatasetRepository struct{ db *sql.DB }

func NewDatasetRepository(db *sql.DB) *DatasetRepository { return &DatasetRepository{db: db} }

// Save insert/update Dataset record
func (r *DatasetRepository) Save(ctx context.Context, d *domain.Dataset) error {
	const q = `
INSERT INTO datasets
(id, tenant_id, name, file_name, uploaded_at, status,
 columns_json, row_count, size_bytes, object_key, file_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 columns_json = EXCLUDED.columns_json,
 row_count = EXCLUDED.row_count,
 size_bytes = EXCLUDED.size_bytes,
 object_key = EXCLUDED.object_key,
 file_url = EXCLUDED.file_url;`

	tenant := stringOrDash(d.TenantID)
	name := stringOrDash(d.Name)
	status := stringOrDash(string(d.Status))
	uploaded := d.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	cols, err := json.Marshal(d.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}

	_, err = r.db.ExecContext(ctx, q,
		d.ID, tenant, name, d.FileName, uploaded, status,
		string(cols), d.RowCount, d.SizeBytes, d.ObjectKey, d.FileURL,
	)
	return err
}

// Get by ID + Tenant
func (r *DatasetRepository) Get(ctx context.Context, tenant string, id domain.DatasetID) (*domain.Dataset, error) {
	const q = `
SELECT id, tenant_id, name, file_name, uploaded_at, status,
       columns_json, row_count, size_bytes, object_key, file_url
FROM datasets
WHERE tenant_id=$1 AND id=$2
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	return scanDataset(row.Scan)
}

// Latest datasets per tenant
func (r *DatasetRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Dataset, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, name, file_name, uploaded_at, status,
       columns_json, row_count, size_bytes, object_key, file_url
FROM datasets
WHERE tenant_id=$1 ORDER BY uploaded_at DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Dataset
	for rows.Next() {
		d, err := scanDataset(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Paginate with offset + limit (classic pagination)
func (r *DatasetRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, name, file_name, uploaded_at, status,
       columns_json, row_count, size_bytes, object_key, file_url
FROM datasets
WHERE tenant_id=$1
ORDER BY uploaded_at DESC, id DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var list []*domain.Dataset
	for rows.Next() {
		d, err := scanDataset(rows.Scan)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		list = append(list, d)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM datasets WHERE tenant_id = $1", tenant,
	).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// UpdateStatus update kolom status saja
func (r *DatasetRepository) UpdateStatus(ctx context.Context, tenant string, id domain.DatasetID, status domain.Status) error {
	const q = `
UPDATE datasets
SET status = $1
WHERE tenant_id = $2 AND id = $3;`
	_, err := r.db.ExecContext(ctx, q, status, tenant, id)
	return err
}

func scanDataset(scan func(dest ...any) error) (*domain.Dataset, error) {
	var d domain.Dataset
	var cols string
	if err := scan(
		&d.ID, &d.TenantID, &d.Name, &d.FileName, &d.UploadedAt, &d.Status,
		&cols, &d.RowCount, &d.SizeBytes, &d.ObjectKey, &d.FileURL,
	); err != nil {
		return nil, err
	}
	if cols != "" {
		if err := json.Unmarshal([]byte(cols), &d.Columns); err != nil {
			return nil, fmt.Errorf("decode columns_json: %w", err)
		}
	}
	return &d, nil
}
