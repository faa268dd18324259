package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// Operator enumerates the supported row filter comparisons.
type Operator string

const (
	OpEquals   Operator = "equals"
	OpContains Operator = "contains"
	OpGreater  Operator = "greater"
	OpLess     Operator = "less"
)

// ErrUnknownOperator rejects filters with an operator outside the
// supported set. The original behaviour silently passed such rows
// through, which hid typos.
var ErrUnknownOperator = errors.New("unknown filter operator")

// Filter keeps a row when the named column satisfies the comparison.
type Filter struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    Value    `json:"value"`
}

// FilterRows keeps rows satisfying every filter (logical AND).
// equals compares string representations exactly; contains is a
// case-insensitive substring test; greater/less compare numerically
// and unparseable sides never match.
func FilterRows(data Dataset, filters []Filter) ([]Row, error) {
	for _, f := range filters {
		switch f.Operator {
		case OpEquals, OpContains, OpGreater, OpLess:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, f.Operator)
		}
	}

	var out []Row
	for _, row := range data {
		keep := true
		for _, f := range filters {
			if !matches(row, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out, nil
}

func matches(row Row, f Filter) bool {
	cell, ok := row[f.Column]
	if !ok {
		cell = Null()
	}
	switch f.Operator {
	case OpEquals:
		return cell.Text() == f.Value.Text()
	case OpContains:
		return strings.Contains(strings.ToLower(cell.Text()), strings.ToLower(f.Value.Text()))
	case OpGreater:
		a, aok := cell.Float()
		b, bok := f.Value.Float()
		return aok && bok && a > b
	case OpLess:
		a, aok := cell.Float()
		b, bok := f.Value.Float()
		return aok && bok && a < b
	}
	return false
}
