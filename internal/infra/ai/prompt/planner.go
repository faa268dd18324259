package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

// PlanLocally builds an interpretation from keyword heuristics, used
// when no hosted model is configured. It never fails; it only returns
// the JSON string.
func PlanLocally(question string, cols []dataset.ColumnInfo) string {
	type stat struct {
		Name      string   `json:"name"`
		Column    string   `json:"column,omitempty"`
		Columns   []string `json:"columns,omitempty"`
		GroupBy   string   `json:"group_by,omitempty"`
		Operation string   `json:"operation,omitempty"`
	}
	type chart struct {
		Type      string `json:"type"`
		X         string `json:"x"`
		Y         string `json:"y"`
		Operation string `json:"operation,omitempty"`
	}
	type output struct {
		Kind        string `json:"kind"`
		SQL         string `json:"sql,omitempty"`
		Stat        *stat  `json:"statistic,omitempty"`
		Chart       *chart `json:"chart,omitempty"`
		Explanation string `json:"explanation,omitempty"`
	}

	lower := strings.ToLower(question)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	// columns mentioned by name in the question, in schema order
	var mentioned []string
	for _, c := range cols {
		if strings.Contains(lower, strings.ToLower(c.Name)) {
			mentioned = append(mentioned, c.Name)
		}
	}
	firstOfType := func(t tabular.ColumnType) string {
		for _, c := range cols {
			if c.Type == t {
				return c.Name
			}
		}
		return ""
	}
	numericTarget := firstOfType(tabular.TypeNumber)
	for _, name := range mentioned {
		for _, c := range cols {
			if c.Name == name && c.Type == tabular.TypeNumber {
				numericTarget = name
			}
		}
	}
	groupTarget := firstOfType(tabular.TypeString)
	for _, name := range mentioned {
		for _, c := range cols {
			if c.Name == name && c.Type != tabular.TypeNumber {
				groupTarget = name
			}
		}
	}

	out := output{}
	switch {
	case has("chart", "plot", "graph", "visual", "draw"):
		ct := "bar"
		if has("over time", "trend", "timeline") || firstOfType(tabular.TypeDate) != "" && has("time", "date") {
			ct = "line"
		} else if has("share", "proportion", "percentage of") {
			ct = "pie"
		} else if has("scatter", "relationship", "versus", " vs ") {
			ct = "scatter"
		}
		x := groupTarget
		if ct == "line" {
			if d := firstOfType(tabular.TypeDate); d != "" {
				x = d
			}
		}
		op := "sum"
		if has("average", "mean") {
			op = "avg"
		} else if has("count", "how many") {
			op = "count"
		}
		out.Kind = "chart"
		out.Chart = &chart{Type: ct, X: x, Y: numericTarget, Operation: op}
		out.Explanation = fmt.Sprintf("A %s chart of %s by %s answers the question.", ct, numericTarget, x)

	case has("anomal", "outlier", "unusual", "spike"):
		out.Kind = "stats"
		out.Stat = &stat{Name: "anomalies", Column: numericTarget}
		out.Explanation = fmt.Sprintf("Values of %s deviating more than two standard deviations are flagged.", numericTarget)

	case has("missing", "empty", "null", "incomplete"):
		target := mentioned
		if len(target) == 0 {
			for _, c := range cols {
				target = append(target, c.Name)
			}
		}
		out.Kind = "stats"
		out.Stat = &stat{Name: "missing", Columns: target}
		out.Explanation = "Missing-value counts per column answer the question."

	case has(" by ", "per ", "grouped"):
		op := "sum"
		if has("average", "mean") {
			op = "avg"
		} else if has("count", "how many") {
			op = "count"
		} else if has("max", "highest", "largest") {
			op = "max"
		} else if has("min", "lowest", "smallest") {
			op = "min"
		}
		out.Kind = "stats"
		out.Stat = &stat{Name: "aggregate", Column: numericTarget, GroupBy: groupTarget, Operation: op}
		out.Explanation = fmt.Sprintf("Aggregating %s of %s per %s answers the question.", op, numericTarget, groupTarget)

	case has("average", "mean", "median", "sum", "total", "min", "max", "statistic", "distribution"):
		out.Kind = "stats"
		out.Stat = &stat{Name: "stats", Column: numericTarget}
		out.Explanation = fmt.Sprintf("Descriptive statistics of %s answer the question.", numericTarget)

	default:
		sel := "*"
		if len(mentioned) > 0 {
			sel = strings.Join(mentioned, ", ")
		}
		out.Kind = "sql"
		out.SQL = fmt.Sprintf("SELECT %s FROM dataset", sel)
		out.Explanation = "No statistic keyword matched; a plain selection plan is returned."
	}

	b, err := json.Marshal(out)
	if err != nil {
		data, _ := json.Marshal(output{Kind: "stats", Stat: &stat{Name: "types"},
			Explanation: "Planning error; inspect the column types and retry."})
		return string(data)
	}
	return string(b)
}
