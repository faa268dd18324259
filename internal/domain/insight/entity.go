package insight

import "time"

// InsightID identifier type
type InsightID string

// Source of an interpretation: the hosted model or the local planner.
type Source string

const (
	SourceOpenAI Source = "openai"
	SourceLocal  Source = "local"
)

// Insight represents an interpreted natural-language question stored
// for history and retrieval
type Insight struct {
	ID        InsightID `json:"id"`
	TenantID  string    `json:"tenant_id"`
	DatasetID string    `json:"dataset_id"`
	Question  string    `json:"question"`
	Result    string    `json:"result"` // JSON string: sql plan, statistic or chart spec
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
