package tabular

import (
	"math"
	"sort"
)

// Summary holds descriptive statistics for one numeric column.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
}

// Anomaly is a value whose distance from the column mean exceeds
// twice the population standard deviation.
type Anomaly struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	Deviation float64 `json:"deviation"`
}

// MissingReport counts absent/null/empty/"N/A" cells for one column.
type MissingReport struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// round2 rounds half away from zero on the x100 scaled value.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// numericColumn extracts the parseable numbers of a column, keeping
// the original row index of each surviving value.
func numericColumn(data Dataset, column string) (vals []float64, idx []int) {
	for i, row := range data {
		v, ok := row[column]
		if !ok {
			continue
		}
		f, ok := v.Float()
		if !ok {
			continue
		}
		vals = append(vals, f)
		idx = append(idx, i)
	}
	return vals, idx
}

// ComputeColumnStatistics returns count, mean, median, min, max and sum
// for the named column. Mean, median and sum are rounded to 2 decimals;
// min/max are reported as-is. Returns nil when no row yields a
// parseable number.
func ComputeColumnStatistics(data Dataset, column string) *Summary {
	vals, _ := numericColumn(data, column)
	if len(vals) == 0 {
		return nil
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return &Summary{
		Column: column,
		Count:  len(vals),
		Mean:   round2(mean),
		Median: round2(median),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Sum:    round2(sum),
	}
}

// DetectAnomalies flags values deviating from the column mean by more
// than 2 population standard deviations. Fewer than 3 numeric values
// yield no anomalies (population statistics are unreliable below that).
func DetectAnomalies(data Dataset, column string) []Anomaly {
	vals, idx := numericColumn(data, column)
	if len(vals) < 3 {
		return nil
	}

	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(vals))
	stdDev := math.Sqrt(variance)

	// with stdDev == 0 no value can exceed the threshold; the guard
	// also keeps the deviation division safe
	if stdDev == 0 {
		return nil
	}

	var out []Anomaly
	threshold := 2 * stdDev
	for i, v := range vals {
		if math.Abs(v-mean) > threshold {
			out = append(out, Anomaly{
				Index:     idx[i],
				Value:     v,
				Deviation: round2((v - mean) / stdDev),
			})
		}
	}
	return out
}

// CountMissingValues reports, per requested column, how many rows hold
// an absent, null, empty-string or literal "N/A" cell. An empty dataset
// reports 0/0 rather than a division by zero.
func CountMissingValues(data Dataset, columns []string) map[string]MissingReport {
	out := make(map[string]MissingReport, len(columns))
	total := len(data)
	for _, col := range columns {
		count := 0
		for _, row := range data {
			v, ok := row[col]
			switch {
			case !ok || v.IsNull():
				count++
			case v.Kind() == KindString && (v.Text() == "" || v.Text() == "N/A"):
				count++
			}
		}
		rep := MissingReport{Count: count}
		if total > 0 {
			rep.Percentage = round2(float64(count) / float64(total) * 100)
		}
		out[col] = rep
	}
	return out
}
