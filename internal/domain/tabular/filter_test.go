package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRowsEqualsCoercesToString(t *testing.T) {
	data := Dataset{
		{"x": String("5")},
		{"x": Number(5)},
		{"x": Number(6)},
	}
	out, err := FilterRows(data, []Filter{{Column: "x", Operator: OpEquals, Value: Number(5)}})
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFilterRowsContainsIgnoresCase(t *testing.T) {
	data := Dataset{
		{"name": String("Jakarta")},
		{"name": String("Bandung")},
		{"name": String("JAKARTA Pusat")},
	}
	out, err := FilterRows(data, []Filter{{Column: "name", Operator: OpContains, Value: String("jakarta")}})
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFilterRowsNumericComparison(t *testing.T) {
	data := Dataset{
		{"v": Number(1)},
		{"v": String("7.5")},
		{"v": String("oops")},
		{"v": Number(10)},
	}
	out, err := FilterRows(data, []Filter{{Column: "v", Operator: OpGreater, Value: Number(5)}})
	assert.NoError(t, err)
	// unparseable cells compare false
	assert.Len(t, out, 2)

	out, err = FilterRows(data, []Filter{{Column: "v", Operator: OpLess, Value: String("8")}})
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFilterRowsAllFiltersMustMatch(t *testing.T) {
	data := Dataset{
		{"city": String("a"), "v": Number(10)},
		{"city": String("a"), "v": Number(1)},
		{"city": String("b"), "v": Number(10)},
	}
	out, err := FilterRows(data, []Filter{
		{Column: "city", Operator: OpEquals, Value: String("a")},
		{Column: "v", Operator: OpGreater, Value: Number(5)},
	})
	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		assert.Equal(t, 10.0, out[0]["v"].num)
	}
}

func TestFilterRowsUnknownOperator(t *testing.T) {
	data := Dataset{{"x": Number(1)}}
	_, err := FilterRows(data, []Filter{{Column: "x", Operator: "between", Value: Number(1)}})
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestFilterRowsNoFilters(t *testing.T) {
	data := Dataset{{"x": Number(1)}, {"x": Number(2)}}
	out, err := FilterRows(data, nil)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}
