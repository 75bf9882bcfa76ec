package dataframe

import (
	"fmt"
	"strconv"
	"strings"
)

// Aggregate ops the tabular agent may request between model iterations.
const (
	OpSum   = "sum"
	OpMean  = "mean"
	OpMin   = "min"
	OpMax   = "max"
	OpCount = "count"
)

// Query executes a single aggregate over the frame and returns a textual
// observation. op is one of the Op constants; by, when non-empty, groups the
// aggregate by that column with groups kept in first-appearance order.
func (f *Frame) Query(op, column, by string) (string, error) {
	op = strings.ToLower(strings.TrimSpace(op))
	if op == OpCount && column == "" && by == "" {
		return fmt.Sprintf("%d rows", f.Rows()), nil
	}

	col := f.Column(column)
	if col == nil {
		return "", fmt.Errorf("unknown column %q", column)
	}

	if by == "" {
		v, err := aggregate(op, col.Values)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", column, err)
		}
		return fmt.Sprintf("%s(%s) = %s", op, column, v), nil
	}

	keyCol := f.Column(by)
	if keyCol == nil {
		return "", fmt.Errorf("unknown column %q", by)
	}

	order := make([]string, 0)
	groups := make(map[string][]any)
	for i, k := range keyCol.Values {
		key := formatCell(k)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], col.Values[i])
	}

	var b strings.Builder
	for i, key := range order {
		v, err := aggregate(op, groups[key])
		if err != nil {
			return "", fmt.Errorf("group %q of column %q: %w", key, column, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", key, v)
	}
	return b.String(), nil
}

func aggregate(op string, values []any) (string, error) {
	if op == OpCount {
		return strconv.Itoa(len(values)), nil
	}

	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if n, ok := v.(float64); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return "", fmt.Errorf("no numeric values")
	}

	switch op {
	case OpSum, OpMean:
		var sum float64
		for _, n := range nums {
			sum += n
		}
		if op == OpMean {
			sum /= float64(len(nums))
		}
		return strconv.FormatFloat(sum, 'f', -1, 64), nil
	case OpMin, OpMax:
		best := nums[0]
		for _, n := range nums[1:] {
			if (op == OpMin && n < best) || (op == OpMax && n > best) {
				best = n
			}
		}
		return strconv.FormatFloat(best, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported op %q", op)
	}
}
