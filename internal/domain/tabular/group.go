package tabular

// Groups partitions rows by the string form of a column value. The key
// order is the order keys were first encountered, so iterating Keys()
// is deterministic for a given input (Go map iteration is not).
type Groups struct {
	keys []string
	rows map[string][]Row
}

// GroupByColumn groups rows by the string representation of the column
// value; missing and null cells group under the literal key "null".
// Row order within each group follows the input order.
func GroupByColumn(data Dataset, column string) *Groups {
	g := &Groups{rows: make(map[string][]Row)}
	for _, row := range data {
		v, ok := row[column]
		if !ok {
			v = Null()
		}
		key := v.Text()
		if _, seen := g.rows[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.rows[key] = append(g.rows[key], row)
	}
	return g
}

// Keys returns the group keys in insertion order.
func (g *Groups) Keys() []string { return g.keys }

// Rows returns the rows of one group, or nil for an unknown key.
func (g *Groups) Rows(key string) []Row { return g.rows[key] }

// Len reports the number of groups.
func (g *Groups) Len() int { return len(g.keys) }

// AggregateOp enumerates the reductions supported by AggregateGroups.
type AggregateOp string

const (
	AggSum   AggregateOp = "sum"
	AggAvg   AggregateOp = "avg"
	AggMean  AggregateOp = "mean" // alias of avg
	AggCount AggregateOp = "count"
	AggMin   AggregateOp = "min"
	AggMax   AggregateOp = "max"
)

// GroupAggregate is the reduced value of one group. Value is null when
// the group held no parseable numbers for sum/avg/min/max; count is
// always present. Rows is the group's total size including rows whose
// aggregate cell was unparseable.
type GroupAggregate struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
	Rows  int      `json:"rows"`
}

// AggregateGroups reduces the named column per group. Unrecognized
// operations default to count. Results are rounded to 2 decimals and
// emitted in group insertion order.
func AggregateGroups(g *Groups, column string, op AggregateOp) []GroupAggregate {
	if op == AggMean {
		op = AggAvg
	}
	switch op {
	case AggSum, AggAvg, AggCount, AggMin, AggMax:
	default:
		op = AggCount
	}

	out := make([]GroupAggregate, 0, g.Len())
	for _, key := range g.keys {
		rows := g.rows[key]
		nums, _ := numericColumn(rows, column)

		agg := GroupAggregate{Key: key, Rows: len(rows)}
		if op == AggCount {
			v := float64(len(nums))
			agg.Value = &v
			out = append(out, agg)
			continue
		}
		if len(nums) == 0 {
			out = append(out, agg)
			continue
		}

		var v float64
		switch op {
		case AggSum, AggAvg:
			for _, n := range nums {
				v += n
			}
			if op == AggAvg {
				v /= float64(len(nums))
			}
		case AggMin:
			v = nums[0]
			for _, n := range nums[1:] {
				if n < v {
					v = n
				}
			}
		case AggMax:
			v = nums[0]
			for _, n := range nums[1:] {
				if n > v {
					v = n
				}
			}
		}
		v = round2(v)
		agg.Value = &v
		out = append(out, agg)
	}
	return out
}
