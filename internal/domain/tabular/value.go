package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the cell variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

// Value is one cell of a row: a string, a number, or null.
// Absence is modelled as a missing Row key, not a Value.
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Null() Value            { return Value{kind: KindNull} }
func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the string representation of the cell, the way the
// UI would render it: numbers in compact form, null as "null".
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return "null"
	}
}

// Float parses the cell as a finite float64. String cells are parsed
// strictly after trimming; null never parses.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(t)
	case string:
		*v = String(t)
	case bool:
		// loosely-typed cells: booleans coerce to their string form
		if t {
			*v = String("true")
		} else {
			*v = String("false")
		}
	default:
		return fmt.Errorf("unsupported cell value of type %T", t)
	}
	return nil
}

// Row is one record of a tabular dataset.
type Row = map[string]Value

// Dataset is an ordered sequence of rows. Functions in this package
// never mutate it.
type Dataset = []Row
