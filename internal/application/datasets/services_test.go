package datasets

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/bryanwahyu/datalens/internal/application"
	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/ingesterrors"
	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

type fakeRepo struct {
	items map[string]*dataset.Dataset
}

func newFakeRepo() *fakeRepo { return &fakeRepo{items: make(map[string]*dataset.Dataset)} }

func (f *fakeRepo) Save(_ context.Context, d *dataset.Dataset) error {
	cp := *d
	f.items[string(d.ID)] = &cp
	return nil
}

func (f *fakeRepo) Get(_ context.Context, tenant string, id dataset.DatasetID) (*dataset.Dataset, error) {
	d, ok := f.items[string(id)]
	if !ok || d.TenantID != tenant {
		return nil, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeRepo) Latest(_ context.Context, tenant string, limit int) ([]*dataset.Dataset, error) {
	return nil, nil
}

func (f *fakeRepo) Paginate(_ context.Context, tenant string, page, pageSize int) (dataset.PaginatedResult, error) {
	return dataset.PaginatedResult{}, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, tenant string, id dataset.DatasetID, status dataset.Status) error {
	if d, ok := f.items[string(id)]; ok {
		d.Status = status
	}
	return nil
}

type fakeErrors struct {
	saved []*ingesterrors.IngestError
}

func (f *fakeErrors) Save(_ context.Context, e *ingesterrors.IngestError) error {
	f.saved = append(f.saved, e)
	return nil
}

func (f *fakeErrors) ListByDataset(_ context.Context, tenant, datasetID string, limit int) ([]*ingesterrors.IngestError, error) {
	return f.saved, nil
}

type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{objects: make(map[string][]byte)} }

func (f *fakeStore) Upload(_ context.Context, localPath, key string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return "mem://" + key, nil
}

func (f *fakeStore) UploadAndCleanup(ctx context.Context, localPath, key string) (string, error) {
	url, err := f.Upload(ctx, localPath, key)
	if err != nil {
		return "", err
	}
	os.Remove(localPath)
	return url, nil
}

func (f *fakeStore) Fetch(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newService() (*Service, *fakeRepo, *fakeErrors, *fakeStore) {
	repo := newFakeRepo()
	errs := &fakeErrors{}
	store := newFakeStore()
	svc := &Service{Repo: repo, Errors: errs, Objects: store, Clock: app.SystemClock{}}
	return svc, repo, errs, store
}

func TestIngestHappyPath(t *testing.T) {
	svc, _, errs, store := newService()

	d, err := svc.Ingest(context.Background(), IngestCommand{
		TenantID: "acme",
		Name:     "Monthly Sales",
		FileName: "sales.csv",
		Body:     strings.NewReader("region,sales\nnorth,10\nsouth,20\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, dataset.StatusReady, d.Status)
	assert.Equal(t, 2, d.RowCount)
	assert.True(t, strings.HasSuffix(string(d.ID), "-monthly-sales"))
	assert.Contains(t, d.ObjectKey, "acme/datasets/")
	assert.Empty(t, errs.saved)
	assert.Len(t, store.objects, 1)

	// rows can be re-read from the object store
	got, rows, err := svc.LoadRows(context.Background(), "acme", d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Len(t, rows, 2)
}

func TestIngestParseFailureIsRecorded(t *testing.T) {
	svc, repo, errs, _ := newService()

	d, err := svc.Ingest(context.Background(), IngestCommand{
		TenantID: "acme",
		Name:     "Broken",
		FileName: "broken.csv",
		Body:     strings.NewReader(""),
	})
	require.Error(t, err)

	require.Len(t, errs.saved, 1)
	assert.Equal(t, "parse", errs.saved[0].Phase)
	assert.Equal(t, string(d.ID), errs.saved[0].DatasetID)

	stored, gerr := repo.Get(context.Background(), "acme", d.ID)
	require.NoError(t, gerr)
	assert.Equal(t, dataset.StatusFailed, stored.Status)
}

func TestStatsValidateColumn(t *testing.T) {
	svc, _, _, _ := newService()

	d, err := svc.Ingest(context.Background(), IngestCommand{
		TenantID: "acme",
		Name:     "Sales",
		FileName: "sales.csv",
		Body:     strings.NewReader("region,sales\nnorth,10\nsouth,20\nwest,60\n"),
	})
	require.NoError(t, err)

	s, err := svc.ColumnStats(context.Background(), "acme", d.ID, "sales")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 30.0, s.Mean)

	_, err = svc.ColumnStats(context.Background(), "acme", d.ID, "ghost")
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestAggregateValidatesBothColumns(t *testing.T) {
	svc, _, _, _ := newService()

	d, err := svc.Ingest(context.Background(), IngestCommand{
		TenantID: "acme",
		Name:     "Sales",
		FileName: "sales.csv",
		Body:     strings.NewReader("region,sales\nnorth,10\nnorth,30\nsouth,20\n"),
	})
	require.NoError(t, err)

	aggs, err := svc.Aggregate(context.Background(), "acme", d.ID, "region", "sales", tabular.AggSum)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	assert.Equal(t, "north", aggs[0].Key)
	require.NotNil(t, aggs[0].Value)
	assert.Equal(t, 40.0, *aggs[0].Value)

	_, err = svc.Aggregate(context.Background(), "acme", d.ID, "ghost", "sales", tabular.AggSum)
	require.ErrorIs(t, err, ErrUnknownColumn)
}
