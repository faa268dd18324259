package ingesterrors

import "time"

// IngestError represents a persisted upload/parse failure entry
type IngestError struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	DatasetID   string    `json:"dataset_id"`
	FileName    string    `json:"file_name,omitempty"`
	Phase       string    `json:"phase,omitempty"` // spool | parse | upload | other
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
