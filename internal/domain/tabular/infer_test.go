package tabular

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strRows(column string, vals ...string) Dataset {
	rows := make(Dataset, 0, len(vals))
	for _, v := range vals {
		rows = append(rows, Row{column: String(v)})
	}
	return rows
}

func TestInferColumnTypes(t *testing.T) {
	data := Dataset{
		{
			"amount":  String("12.5"),
			"when":    String("2024-03-01"),
			"active":  String("yes"),
			"city":    String("Bandung"),
			"flagged": String("1"),
		},
		{
			"amount":  Number(7),
			"when":    String("2024/04/02"),
			"active":  String("NO"),
			"city":    String("Jakarta"),
			"flagged": String("0"),
		},
	}
	out := InferColumnTypes(data, []string{"amount", "when", "active", "city", "flagged", "ghost"})

	assert.Equal(t, TypeNumber, out["amount"])
	assert.Equal(t, TypeDate, out["when"])
	assert.Equal(t, TypeBoolean, out["active"])
	assert.Equal(t, TypeString, out["city"])
	// all-0/1 columns are numbers, not booleans
	assert.Equal(t, TypeNumber, out["flagged"])
	assert.Equal(t, TypeUnknown, out["ghost"])
}

func TestInferColumnTypesNumberBeatsBoolean(t *testing.T) {
	out := InferColumnTypes(strRows("b", "1", "0", "1"), []string{"b"})
	assert.Equal(t, TypeNumber, out["b"])
}

func TestInferColumnTypesDateNeedsOneMatch(t *testing.T) {
	// mixed strings where a single value parses as a date
	out := InferColumnTypes(strRows("c", "pending", "2023-12-31", "done"), []string{"c"})
	assert.Equal(t, TypeDate, out["c"])
}

func TestInferColumnTypesSkipsNullAndEmpty(t *testing.T) {
	data := Dataset{
		{"v": Null()},
		{"v": String("")},
		{"v": String("3")},
	}
	out := InferColumnTypes(data, []string{"v"})
	assert.Equal(t, TypeNumber, out["v"])
}

func TestInferColumnTypesBoundedSample(t *testing.T) {
	// values beyond the sample window must not influence the result
	var data Dataset
	for i := 0; i < inferSampleSize; i++ {
		data = append(data, Row{"v": String(strconv.Itoa(i))})
	}
	data = append(data, Row{"v": String("definitely text")})

	out := InferColumnTypes(data, []string{"v"})
	assert.Equal(t, TypeNumber, out["v"])
}
