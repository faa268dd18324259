package tabular

import (
	"strings"
	"time"
)

// ColumnType is the inferred type tag of a column.
type ColumnType string

const (
	TypeUnknown ColumnType = "unknown"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeString  ColumnType = "string"
)

// inferSampleSize bounds how many non-null, non-empty values are
// inspected per column.
const inferSampleSize = 100

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006", "1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

func parsesAsDate(s string) bool {
	for _, l := range dateLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

var boolTokens = map[string]bool{
	"true": true, "false": true, "1": true, "0": true, "yes": true, "no": true,
}

// InferColumnTypes classifies each requested column from a bounded
// sample of its values. Precedence when several checks match:
// number, then date, then boolean, then string — so an all-0/1 column
// is "number", not "boolean".
func InferColumnTypes(data Dataset, columns []string) map[string]ColumnType {
	out := make(map[string]ColumnType, len(columns))
	for _, col := range columns {
		var sample []Value
		for _, row := range data {
			v, ok := row[col]
			if !ok || v.IsNull() {
				continue
			}
			if v.Kind() == KindString && v.Text() == "" {
				continue
			}
			sample = append(sample, v)
			if len(sample) >= inferSampleSize {
				break
			}
		}
		out[col] = classify(sample)
	}
	return out
}

func classify(sample []Value) ColumnType {
	if len(sample) == 0 {
		return TypeUnknown
	}
	allNumber, allBool, anyDate := true, true, false
	for _, v := range sample {
		if _, ok := v.Float(); !ok {
			allNumber = false
		}
		text := v.Text()
		if !boolTokens[strings.ToLower(text)] {
			allBool = false
		}
		if !anyDate && parsesAsDate(text) {
			anyDate = true
		}
	}
	switch {
	case allNumber:
		return TypeNumber
	case anyDate:
		return TypeDate
	case allBool:
		return TypeBoolean
	default:
		return TypeString
	}
}
