package prompt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

var salesCols = []dataset.ColumnInfo{
	{Name: "region", Type: tabular.TypeString},
	{Name: "sales", Type: tabular.TypeNumber},
	{Name: "day", Type: tabular.TypeDate},
}

func plan(t *testing.T, question string) Interpretation {
	t.Helper()
	raw := PlanLocally(question, salesCols)
	var out Interpretation
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestPlanAggregateByGroup(t *testing.T) {
	out := plan(t, "average sales by region")
	require.Equal(t, "stats", out.Kind)
	require.NotNil(t, out.Stat)
	assert.Equal(t, "aggregate", out.Stat.Name)
	assert.Equal(t, "sales", out.Stat.Column)
	assert.Equal(t, "region", out.Stat.GroupBy)
	assert.Equal(t, "avg", out.Stat.Operation)
}

func TestPlanChart(t *testing.T) {
	out := plan(t, "plot sales per region")
	require.Equal(t, "chart", out.Kind)
	require.NotNil(t, out.Chart)
	assert.Equal(t, "bar", out.Chart.Type)
	assert.Equal(t, "region", out.Chart.X)
	assert.Equal(t, "sales", out.Chart.Y)
}

func TestPlanTrendChartUsesDateAxis(t *testing.T) {
	out := plan(t, "chart the sales trend")
	require.Equal(t, "chart", out.Kind)
	require.NotNil(t, out.Chart)
	assert.Equal(t, "line", out.Chart.Type)
	assert.Equal(t, "day", out.Chart.X)
}

func TestPlanAnomalies(t *testing.T) {
	out := plan(t, "any outliers in sales?")
	require.Equal(t, "stats", out.Kind)
	require.NotNil(t, out.Stat)
	assert.Equal(t, "anomalies", out.Stat.Name)
	assert.Equal(t, "sales", out.Stat.Column)
}

func TestPlanMissingNamedColumn(t *testing.T) {
	out := plan(t, "how many missing values in region")
	require.Equal(t, "stats", out.Kind)
	require.NotNil(t, out.Stat)
	assert.Equal(t, "missing", out.Stat.Name)
	assert.Equal(t, []string{"region"}, out.Stat.Columns)
}

func TestPlanFallsBackToSQL(t *testing.T) {
	out := plan(t, "show me everything")
	require.Equal(t, "sql", out.Kind)
	assert.Contains(t, out.SQL, "SELECT")
}
