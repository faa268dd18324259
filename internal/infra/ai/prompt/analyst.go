package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior data analyst. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- kind must be one of: sql, stats, chart.
- For kind=sql fill "sql" with a single SELECT-style plan over the dataset columns; never reference columns absent from the profile.
- For kind=stats fill "statistic" with one of: stats, anomalies, missing, filter, aggregate, types, plus the column(s) it applies to.
- For kind=chart fill "chart" with type (bar|line|pie|scatter), x, y and an optional aggregate operation.
- Keep "explanation" to one or two plain sentences.
- If the question cannot be answered from the profiled columns, choose kind=stats with statistic "types" and explain why.

Schema (example with empty values):
{
  "kind": "<sql|stats|chart>",
  "sql": "<string>",
  "statistic": {"name": "<string>", "column": "<string>", "columns": ["<string>"], "group_by": "<string>", "operation": "<string>"},
  "chart": {"type": "<bar|line|pie|scatter>", "x": "<string>", "y": "<string>", "operation": "<string>"},
  "explanation": "<string>"
}`
}

// GetUserPrompt builds the user message around the question and the
// dataset profile.
func GetUserPrompt(question, profile string) string {
	return fmt.Sprintf("Question: %s\n\nDataset profile:\n%s\n\nRespond with the JSON per schema.", question, profile)
}

// Interpretation matches the schema used by the system prompt.
type Interpretation struct {
	Kind string `json:"kind"`
	SQL  string `json:"sql,omitempty"`
	Stat *struct {
		Name      string   `json:"name"`
		Column    string   `json:"column,omitempty"`
		Columns   []string `json:"columns,omitempty"`
		GroupBy   string   `json:"group_by,omitempty"`
		Operation string   `json:"operation,omitempty"`
	} `json:"statistic,omitempty"`
	Chart *struct {
		Type      string `json:"type"`
		X         string `json:"x"`
		Y         string `json:"y"`
		Operation string `json:"operation,omitempty"`
	} `json:"chart,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}
