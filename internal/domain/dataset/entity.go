package dataset

import (
	"time"

	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

// ID tipe untuk Dataset
type DatasetID string

// Status enum
type Status string

const (
	StatusIngesting Status = "ingesting"
	StatusReady     Status = "ready"
	StatusFailed    Status = "failed"
)

// ColumnInfo pairs a column name with its inferred type.
type ColumnInfo struct {
	Name string             `json:"name"`
	Type tabular.ColumnType `json:"type"`
}

// Aggregate Root: Dataset (metadata of one uploaded table; the raw
// file lives in object storage under ObjectKey)
type Dataset struct {
	ID         DatasetID    `json:"id"`
	TenantID   string       `json:"tenant_id"`
	Name       string       `json:"name"`
	FileName   string       `json:"file_name,omitempty"`
	UploadedAt time.Time    `json:"uploaded_at"`
	Status     Status       `json:"status"`
	Columns    []ColumnInfo `json:"columns"`
	RowCount   int          `json:"row_count"`
	SizeBytes  int64        `json:"size_bytes"`
	ObjectKey  string       `json:"object_key,omitempty"`
	FileURL    string       `json:"file_url,omitempty"`
}

// ColumnNames returns the column names in schema order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// HasColumn reports whether the dataset schema contains the column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
