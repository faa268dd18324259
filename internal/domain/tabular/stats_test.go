package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numRows(column string, vals ...float64) Dataset {
	rows := make(Dataset, 0, len(vals))
	for _, v := range vals {
		rows = append(rows, Row{column: Number(v)})
	}
	return rows
}

func TestComputeColumnStatistics(t *testing.T) {
	data := Dataset{
		{"price": Number(10)},
		{"price": String("20")},
		{"price": Number(30)},
		{"price": String("not a number")},
		{"price": Null()},
		{"other": Number(99)},
	}

	s := ComputeColumnStatistics(data, "price")
	if assert.NotNil(t, s) {
		assert.Equal(t, 3, s.Count)
		assert.Equal(t, 20.0, s.Mean)
		assert.Equal(t, 20.0, s.Median)
		assert.Equal(t, 10.0, s.Min)
		assert.Equal(t, 30.0, s.Max)
		assert.Equal(t, 60.0, s.Sum)
	}
}

func TestComputeColumnStatisticsRounding(t *testing.T) {
	s := ComputeColumnStatistics(numRows("v", 1.005, 2.015, 2.015, 1.005), "v")
	if assert.NotNil(t, s) {
		// 1.51 and 6.04 require rounding on the x100 scale
		assert.Equal(t, 1.51, s.Mean)
		assert.Equal(t, 6.04, s.Sum)
		assert.Equal(t, 1.51, s.Median)
	}
}

func TestComputeColumnStatisticsEvenMedian(t *testing.T) {
	s := ComputeColumnStatistics(numRows("v", 4, 1, 3, 2), "v")
	if assert.NotNil(t, s) {
		assert.Equal(t, 2.5, s.Median)
	}
}

func TestComputeColumnStatisticsAbsent(t *testing.T) {
	assert.Nil(t, ComputeColumnStatistics(nil, "v"))
	assert.Nil(t, ComputeColumnStatistics(Dataset{{"v": String("x")}}, "v"))
}

func TestComputeColumnStatisticsOrderInvariant(t *testing.T) {
	// min <= median <= max and mean within [min, max]
	s := ComputeColumnStatistics(numRows("v", 7, -3, 12, 0.5, 4), "v")
	if assert.NotNil(t, s) {
		assert.LessOrEqual(t, s.Min, s.Median)
		assert.LessOrEqual(t, s.Median, s.Max)
		assert.GreaterOrEqual(t, s.Mean, s.Min)
		assert.LessOrEqual(t, s.Mean, s.Max)
	}
}

func TestDetectAnomalies(t *testing.T) {
	data := numRows("v", 10, 11, 9, 10, 12, 10, 11, 9, 100)
	out := DetectAnomalies(data, "v")
	if assert.Len(t, out, 1) {
		assert.Equal(t, 8, out[0].Index)
		assert.Equal(t, 100.0, out[0].Value)
		assert.Greater(t, out[0].Deviation, 2.0)
	}
}

func TestDetectAnomaliesKeepsOriginalIndex(t *testing.T) {
	data := Dataset{
		{"v": String("n/a")},
		{"v": Number(10)},
		{"v": Number(10)},
		{"v": Number(10)},
		{"v": Number(10)},
		{"v": Number(10)},
		{"v": Number(500)},
	}
	out := DetectAnomalies(data, "v")
	if assert.Len(t, out, 1) {
		assert.Equal(t, 6, out[0].Index)
	}
}

func TestDetectAnomaliesTooFewValues(t *testing.T) {
	assert.Empty(t, DetectAnomalies(numRows("v", 1, 2), "v"))
	assert.Empty(t, DetectAnomalies(nil, "v"))
}

func TestDetectAnomaliesZeroStdDev(t *testing.T) {
	assert.Empty(t, DetectAnomalies(numRows("v", 5, 5, 5, 5), "v"))
}

func TestCountMissingValues(t *testing.T) {
	data := Dataset{
		{"a": Number(1)},
		{"a": Null()},
		{"a": String("")},
		{"a": String("N/A")},
		{"a": Number(2)},
	}
	out := CountMissingValues(data, []string{"a", "b"})

	assert.Equal(t, 3, out["a"].Count)
	assert.Equal(t, 60.0, out["a"].Percentage)
	// column b is absent from every row
	assert.Equal(t, 5, out["b"].Count)
	assert.Equal(t, 100.0, out["b"].Percentage)
}

func TestCountMissingValuesSentinelIsCaseSensitive(t *testing.T) {
	data := Dataset{{"a": String("n/a")}, {"a": String("N/A")}}
	out := CountMissingValues(data, []string{"a"})
	assert.Equal(t, 1, out["a"].Count)
}

func TestCountMissingValuesEmptyDataset(t *testing.T) {
	out := CountMissingValues(nil, []string{"a"})
	assert.Equal(t, 0, out["a"].Count)
	assert.Equal(t, 0.0, out["a"].Percentage)
}

func TestStatisticsAreIdempotent(t *testing.T) {
	data := numRows("v", 3, 1, 4, 1, 5, 9, 2, 6)
	first := ComputeColumnStatistics(data, "v")
	second := ComputeColumnStatistics(data, "v")
	assert.Equal(t, first, second)
	assert.Equal(t, DetectAnomalies(data, "v"), DetectAnomalies(data, "v"))
}
