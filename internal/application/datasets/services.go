package datasets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	app "github.com/bryanwahyu/datalens/internal/application"
	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/ingesterrors"
	"github.com/bryanwahyu/datalens/internal/domain/tabular"
	"github.com/bryanwahyu/datalens/internal/infra/tabular/csvio"
)

// ErrUnknownColumn is returned when a request names a column the
// dataset schema does not have.
var ErrUnknownColumn = errors.New("unknown column")

// Service implements use-cases untuk Dataset
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo    dataset.Repository
	Errors  ingesterrors.Repository
	Objects dataset.ObjectStore
	Clock   app.Clock
}

//
// ==== USE CASES ====
//

// Command untuk ingest file upload
type IngestCommand struct {
	TenantID string
	Name     string
	FileName string
	Body     io.Reader
}

// Ingest spool upload ke temp file → parse + infer types → upload ke
// object store → simpan metadata. Kegagalan dicatat ke ingest error
// repo dan status dataset jadi failed.
func (s *Service) Ingest(ctx context.Context, cmd IngestCommand) (*dataset.Dataset, error) {
	now := s.Clock.Now()
	id := dataset.DatasetID(fmt.Sprintf("%s-%s", uuid.New().String(), slug(cmd.Name)))

	// Create an initial row so the dataset is visible while ingesting
	initial := &dataset.Dataset{
		ID:         id,
		TenantID:   cmd.TenantID,
		Name:       cmd.Name,
		FileName:   cmd.FileName,
		UploadedAt: now,
		Status:     dataset.StatusIngesting,
	}
	if err := s.Repo.Save(ctx, initial); err != nil {
		return initial, err
	}

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(cmd.FileName))
	if err != nil {
		return initial, s.fail(ctx, initial, "spool", err)
	}
	size, err := io.Copy(tmp, cmd.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return initial, s.fail(ctx, initial, "spool", err)
	}

	table, err := csvio.ParseFile(tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return initial, s.fail(ctx, initial, "parse", err)
	}

	types := tabular.InferColumnTypes(table.Rows, table.Header)
	cols := make([]dataset.ColumnInfo, len(table.Header))
	for i, name := range table.Header {
		cols[i] = dataset.ColumnInfo{Name: name, Type: types[name]}
	}

	key := fmt.Sprintf("%s/datasets/%s%s", cmd.TenantID, id, filepath.Ext(cmd.FileName))
	url, err := s.Objects.UploadAndCleanup(ctx, tmp.Name(), key)
	if err != nil {
		os.Remove(tmp.Name())
		return initial, s.fail(ctx, initial, "upload", err)
	}

	final := &dataset.Dataset{
		ID:         id,
		TenantID:   cmd.TenantID,
		Name:       cmd.Name,
		FileName:   cmd.FileName,
		UploadedAt: now,
		Status:     dataset.StatusReady,
		Columns:    cols,
		RowCount:   len(table.Rows),
		SizeBytes:  size,
		ObjectKey:  key,
		FileURL:    url,
	}
	if err := s.Repo.Save(ctx, final); err != nil {
		return final, err
	}
	return final, nil
}

// fail catat ingest error + tandai dataset failed, lalu return err asli
func (s *Service) fail(ctx context.Context, d *dataset.Dataset, phase string, cause error) error {
	details, _ := json.Marshal(map[string]string{"file_name": d.FileName, "phase": phase})
	_ = s.Errors.Save(ctx, &ingesterrors.IngestError{
		TenantID:    d.TenantID,
		DatasetID:   string(d.ID),
		FileName:    d.FileName,
		Phase:       phase,
		Message:     cause.Error(),
		DetailsJSON: string(details),
		CreatedAt:   s.Clock.Now(),
	})
	_ = s.Repo.UpdateStatus(context.Background(), d.TenantID, d.ID, dataset.StatusFailed)
	return cause
}

// Get ambil 1 dataset by id
func (s *Service) Get(ctx context.Context, tenant string, id dataset.DatasetID) (*dataset.Dataset, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Latest ambil N dataset terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*dataset.Dataset, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Paginate ambil dataset per halaman
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) (dataset.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// ListErrors ambil error ingest untuk satu dataset
func (s *Service) ListErrors(ctx context.Context, tenant string, id dataset.DatasetID, limit int) ([]*ingesterrors.IngestError, error) {
	return s.Errors.ListByDataset(ctx, tenant, string(id), limit)
}

//
// ==== STATISTICS OVER STORED ROWS ====
//

// LoadRows fetch file mentah dari object store dan decode ulang
func (s *Service) LoadRows(ctx context.Context, tenant string, id dataset.DatasetID) (*dataset.Dataset, tabular.Dataset, error) {
	d, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.Objects.Fetch(ctx, d.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch object %s: %w", d.ObjectKey, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read object %s: %w", d.ObjectKey, err)
	}
	table, err := csvio.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	return d, table.Rows, nil
}

// ColumnStats hitung ringkasan numerik satu kolom. Nil kalau kolom
// tidak punya nilai numerik sama sekali.
func (s *Service) ColumnStats(ctx context.Context, tenant string, id dataset.DatasetID, column string) (*tabular.Summary, error) {
	d, rows, err := s.LoadRows(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return tabular.ComputeColumnStatistics(rows, column), nil
}

// Anomalies deteksi nilai di luar 2 standar deviasi
func (s *Service) Anomalies(ctx context.Context, tenant string, id dataset.DatasetID, column string) ([]tabular.Anomaly, error) {
	d, rows, err := s.LoadRows(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return tabular.DetectAnomalies(rows, column), nil
}

// Missing hitung sel kosong per kolom; kolom kosong berarti semua kolom
func (s *Service) Missing(ctx context.Context, tenant string, id dataset.DatasetID, columns []string) (map[string]tabular.MissingReport, error) {
	d, rows, err := s.LoadRows(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = d.ColumnNames()
	}
	for _, col := range columns {
		if !d.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}
	return tabular.CountMissingValues(rows, columns), nil
}

// Filter apply filter berantai (AND) ke rows
func (s *Service) Filter(ctx context.Context, tenant string, id dataset.DatasetID, filters []tabular.Filter) ([]tabular.Row, error) {
	d, rows, err := s.LoadRows(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	for _, f := range filters {
		if !d.HasColumn(f.Column) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, f.Column)
		}
	}
	return tabular.FilterRows(rows, filters)
}

// Aggregate group by satu kolom lalu reduksi kolom lain
func (s *Service) Aggregate(ctx context.Context, tenant string, id dataset.DatasetID, groupBy, column string, op tabular.AggregateOp) ([]tabular.GroupAggregate, error) {
	d, rows, err := s.LoadRows(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if !d.HasColumn(groupBy) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, groupBy)
	}
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	groups := tabular.GroupByColumn(rows, groupBy)
	return tabular.AggregateGroups(groups, column, op), nil
}

// Types kembalikan tipe kolom hasil inferensi saat ingest
func (s *Service) Types(ctx context.Context, tenant string, id dataset.DatasetID) (map[string]tabular.ColumnType, error) {
	d, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]tabular.ColumnType, len(d.Columns))
	for _, c := range d.Columns {
		out[c.Name] = c.Type
	}
	return out, nil
}

// helper
func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "dataset"
	}
	return b.String()
}
