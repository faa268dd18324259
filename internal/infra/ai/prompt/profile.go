package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

// profileSampleRows caps how many example rows the profile carries.
const profileSampleRows = 3

// Profile renders a compact text description of a dataset suitable for
// inclusion in a prompt: schema with inferred types, numeric summaries,
// missing-value counts and a few sample rows.
func Profile(d *dataset.Dataset, rows tabular.Dataset) string {
	var b strings.Builder
	b.WriteString("[DATASET]\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", d.Name))
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", len(rows), len(d.Columns)))

	missing := tabular.CountMissingValues(rows, d.ColumnNames())

	b.WriteString("[SCHEMA]\n")
	for _, col := range d.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s", col.Name, col.Type))
		if rep, ok := missing[col.Name]; ok && rep.Count > 0 {
			b.WriteString(fmt.Sprintf(" (missing %.2f%%)", rep.Percentage))
		}
		if col.Type == tabular.TypeNumber {
			if s := tabular.ComputeColumnStatistics(rows, col.Name); s != nil {
				b.WriteString(fmt.Sprintf(" — min %g, max %g, mean %g, median %g", s.Min, s.Max, s.Mean, s.Median))
			}
		}
		b.WriteString("\n")
	}

	if len(rows) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		n := profileSampleRows
		if len(rows) < n {
			n = len(rows)
		}
		for i := 0; i < n; i++ {
			parts := make([]string, 0, len(d.Columns))
			for _, col := range d.Columns {
				v, ok := rows[i][col.Name]
				if !ok {
					v = tabular.Null()
				}
				parts = append(parts, fmt.Sprintf("%s=%s", col.Name, v.Text()))
			}
			b.WriteString("- " + strings.Join(parts, " | ") + "\n")
		}
	}
	return b.String()
}
