package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superai/models"
)

func pairData() models.ChartData {
	return models.ChartData{
		Columns: []any{"月份", "销售额"},
		Data: []any{
			[]any{"1月", float64(1000)},
			[]any{"2月", float64(1500)},
			[]any{"3月", float64(2000)},
		},
	}
}

func TestRenderEachType(t *testing.T) {
	dir := t.TempDir()
	for _, typ := range []Type{Bar, Line, Pie, Scatter, Box, Hist, Area} {
		filename, err := Render(models.ChartSpec{
			Type:  string(typ),
			Data:  pairData(),
			Title: "月度销售额",
		}, dir)
		require.NoError(t, err, "type %s", typ)

		assert.True(t, strings.HasPrefix(filename, "chart_"+string(typ)+"_"))
		assert.True(t, strings.HasSuffix(filename, ".html"))

		content, err := os.ReadFile(filepath.Join(dir, filename))
		require.NoError(t, err)
		assert.Contains(t, string(content), "echarts")
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestRenderUnsupportedType(t *testing.T) {
	_, err := Render(models.ChartSpec{Type: "heatmap", Data: pairData()}, t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRenderParallelColumnShape(t *testing.T) {
	data := models.ChartData{
		Columns: []any{"城市", "订单量"},
		Data: []any{
			[]any{"北京", "上海", "广州"},
			[]any{float64(12), float64(9), float64(4)},
		},
	}
	filename, err := Render(models.ChartSpec{Type: "bar", Data: data}, t.TempDir())
	require.NoError(t, err)
	assert.NotEmpty(t, filename)
}

func TestRenderEmptyParallelColumns(t *testing.T) {
	// Two empty sequences satisfy the parallel shape but hold zero points;
	// every type must reject them instead of panicking on an empty series.
	data := models.ChartData{
		Columns: []any{"月份", "销售额"},
		Data:    []any{[]any{}, []any{}},
	}
	for _, typ := range []Type{Bar, Line, Pie, Scatter, Box, Hist, Area} {
		_, err := Render(models.ChartSpec{Type: string(typ), Data: data}, t.TempDir())
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr, "type %s", typ)
		assert.Contains(t, dataErr.Error(), "数据为空", "type %s", typ)
	}
}

func TestRenderMalformedData(t *testing.T) {
	data := models.ChartData{
		Columns: []any{"月份", "销售额"},
		Data:    []any{"孤立值", float64(3)},
	}
	_, err := Render(models.ChartSpec{Type: "bar", Data: data}, t.TempDir())
	require.Error(t, err)

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	// The offending payload is carried for diagnostics.
	assert.Contains(t, dataErr.Error(), "孤立值")
}

func TestRenderEmptyData(t *testing.T) {
	_, err := Render(models.ChartSpec{Type: "line",
		Data: models.ChartData{Columns: []any{"a", "b"}}}, t.TempDir())
	var dataErr *DataError
	assert.ErrorAs(t, err, &dataErr)
}

func TestNormalizePairRows(t *testing.T) {
	headers, cats, vals, err := normalize(pairData())
	require.NoError(t, err)
	assert.Equal(t, [2]string{"月份", "销售额"}, headers)
	assert.Equal(t, []string{"1月", "2月", "3月"}, cats)
	assert.Equal(t, []float64{1000, 1500, 2000}, vals)
}

func TestNormalizeHeaderCoercionAndDefaults(t *testing.T) {
	headers, _, _, err := normalize(models.ChartData{
		Columns: []any{float64(2024)},
		Data:    []any{[]any{"a", float64(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024", headers[0])
	assert.Equal(t, "value", headers[1])
}

func TestNormalizeAmbiguousTwoByTwo(t *testing.T) {
	// Two sequences of length two: the pair reading fails on the non-numeric
	// second cell, the parallel reading succeeds.
	_, cats, vals, err := normalize(models.ChartData{
		Columns: []any{"月份", "销售额"},
		Data: []any{
			[]any{"1月", "2月"},
			[]any{float64(100), float64(200)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1月", "2月"}, cats)
	assert.Equal(t, []float64{100, 200}, vals)
}

func TestNormalizeNumericStrings(t *testing.T) {
	_, _, vals, err := normalize(models.ChartData{
		Data: []any{[]any{"一", "15"}, []any{"二", "30.5"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 30.5}, vals)
}

func TestNormalizeMismatchedParallelColumns(t *testing.T) {
	_, _, _, err := normalize(models.ChartData{
		Data: []any{
			[]any{"a", "b", "c"},
			[]any{float64(1), float64(2)},
		},
	})
	var dataErr *DataError
	assert.ErrorAs(t, err, &dataErr)
}
