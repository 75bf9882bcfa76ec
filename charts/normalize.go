package charts

import (
	"fmt"
	"strconv"

	"superai/models"
)

// normalize reduces the two accepted payload shapes to parallel category and
// value slices with text headers.
//
// Canonical shape: data is a list of [category, value] pairs. Legacy shape:
// data is exactly two parallel flat sequences, the first holding categories
// and the second values. Anything else is a DataError.
func normalize(data models.ChartData) (headers [2]string, cats []string, vals []float64, err error) {
	headers = [2]string{"category", "value"}
	if len(data.Columns) > 0 {
		headers[0] = toText(data.Columns[0])
	}
	if len(data.Columns) > 1 {
		headers[1] = toText(data.Columns[1])
	}

	if len(data.Data) == 0 {
		return headers, nil, nil, &DataError{Reason: "数据为空", Payload: data}
	}

	if pairs, ok := asPairRows(data.Data); ok {
		pairErr := error(nil)
		for _, pair := range pairs {
			v, ok := toFloat(pair[1])
			if !ok {
				pairErr = &DataError{
					Reason: fmt.Sprintf("数值列包含非数字值 %v", pair[1]), Payload: data}
				break
			}
			cats = append(cats, toText(pair[0]))
			vals = append(vals, v)
		}
		if pairErr == nil {
			return headers, cats, vals, nil
		}
		// Two string/value sequences of length two also decode as pair
		// rows. Only give up if the parallel reading fails as well.
		if _, _, ok := asParallelColumns(data.Data); !ok {
			return headers, nil, nil, pairErr
		}
		cats, vals = nil, nil
	}

	if rawCats, rawVals, ok := asParallelColumns(data.Data); ok {
		// Two empty sequences normalize to zero points; the draw paths
		// assume at least one.
		if len(rawCats) == 0 {
			return headers, nil, nil, &DataError{Reason: "数据为空", Payload: data}
		}
		for i := range rawCats {
			v, ok := toFloat(rawVals[i])
			if !ok {
				return headers, nil, nil, &DataError{
					Reason: fmt.Sprintf("数值列包含非数字值 %v", rawVals[i]), Payload: data}
			}
			cats = append(cats, toText(rawCats[i]))
			vals = append(vals, v)
		}
		return headers, cats, vals, nil
	}

	return headers, nil, nil, &DataError{Reason: "无法识别的数据形状", Payload: data}
}

// asPairRows reports whether every element is a two-item [category, value]
// row.
func asPairRows(data []any) ([][]any, bool) {
	rows := make([][]any, 0, len(data))
	for _, el := range data {
		row, ok := el.([]any)
		if !ok || len(row) != 2 {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

// asParallelColumns reports whether data is two equal-length flat sequences,
// categories first.
func asParallelColumns(data []any) (cats, vals []any, ok bool) {
	if len(data) != 2 {
		return nil, nil, false
	}
	cats, ok = data[0].([]any)
	if !ok {
		return nil, nil, false
	}
	vals, ok = data[1].([]any)
	if !ok || len(cats) != len(vals) {
		return nil, nil, false
	}
	return cats, vals, true
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
