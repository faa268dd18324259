package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupByColumn(t *testing.T) {
	data := Dataset{
		{"g": String("a"), "v": Number(1)},
		{"g": String("b"), "v": Number(2)},
		{"g": String("a"), "v": Number(3)},
		{"v": Number(4)},
		{"g": Null(), "v": Number(5)},
	}
	g := GroupByColumn(data, "g")

	assert.Equal(t, []string{"a", "b", "null"}, g.Keys())
	assert.Len(t, g.Rows("a"), 2)
	assert.Len(t, g.Rows("b"), 1)
	// missing and null cells share the literal "null" group
	assert.Len(t, g.Rows("null"), 2)
	// row order within a group follows input order
	assert.Equal(t, 1.0, g.Rows("a")[0]["v"].num)
	assert.Equal(t, 3.0, g.Rows("a")[1]["v"].num)
}

func TestGroupThenAggregateSum(t *testing.T) {
	data := Dataset{
		{"g": String("a"), "v": Number(1)},
		{"g": String("a"), "v": Number(2)},
		{"g": String("b"), "v": Number(3)},
	}
	out := AggregateGroups(GroupByColumn(data, "g"), "v", AggSum)

	if assert.Len(t, out, 2) {
		assert.Equal(t, "a", out[0].Key)
		if assert.NotNil(t, out[0].Value) {
			assert.Equal(t, 3.0, *out[0].Value)
		}
		assert.Equal(t, 2, out[0].Rows)

		assert.Equal(t, "b", out[1].Key)
		if assert.NotNil(t, out[1].Value) {
			assert.Equal(t, 3.0, *out[1].Value)
		}
		assert.Equal(t, 1, out[1].Rows)
	}
}

func TestAggregateGroupsOperations(t *testing.T) {
	data := Dataset{
		{"g": String("a"), "v": Number(2)},
		{"g": String("a"), "v": Number(4)},
		{"g": String("a"), "v": String("skip me")},
	}
	g := GroupByColumn(data, "g")

	cases := []struct {
		op   AggregateOp
		want float64
	}{
		{AggSum, 6},
		{AggAvg, 3},
		{AggMean, 3},
		{AggCount, 2},
		{AggMin, 2},
		{AggMax, 4},
		{"median", 2}, // unrecognized falls back to count
	}
	for _, c := range cases {
		out := AggregateGroups(g, "v", c.op)
		if assert.Len(t, out, 1, "op %s", c.op) && assert.NotNil(t, out[0].Value, "op %s", c.op) {
			assert.Equal(t, c.want, *out[0].Value, "op %s", c.op)
			assert.Equal(t, 3, out[0].Rows, "op %s", c.op)
		}
	}
}

func TestAggregateGroupsNoParseableValues(t *testing.T) {
	data := Dataset{{"g": String("a"), "v": String("x")}}
	g := GroupByColumn(data, "g")

	out := AggregateGroups(g, "v", AggSum)
	if assert.Len(t, out, 1) {
		// explicit null instead of NaN
		assert.Nil(t, out[0].Value)
		assert.Equal(t, 1, out[0].Rows)
	}

	out = AggregateGroups(g, "v", AggCount)
	if assert.Len(t, out, 1) && assert.NotNil(t, out[0].Value) {
		assert.Equal(t, 0.0, *out[0].Value)
	}
}

func TestAggregateGroupsRounding(t *testing.T) {
	data := Dataset{
		{"g": String("a"), "v": Number(1)},
		{"g": String("a"), "v": Number(2)},
		{"g": String("a"), "v": Number(2)},
	}
	out := AggregateGroups(GroupByColumn(data, "g"), "v", AggAvg)
	if assert.Len(t, out, 1) && assert.NotNil(t, out[0].Value) {
		assert.Equal(t, 1.67, *out[0].Value)
	}
}

func TestAggregateGroupsDeterministicOrder(t *testing.T) {
	data := Dataset{
		{"g": String("z"), "v": Number(1)},
		{"g": String("a"), "v": Number(1)},
		{"g": String("m"), "v": Number(1)},
	}
	first := AggregateGroups(GroupByColumn(data, "g"), "v", AggSum)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AggregateGroups(GroupByColumn(data, "g"), "v", AggSum))
	}
	assert.Equal(t, "z", first[0].Key)
	assert.Equal(t, "a", first[1].Key)
	assert.Equal(t, "m", first[2].Key)
}
