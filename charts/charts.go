package charts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"superai/models"
)

// Type is the closed set of chart kinds an agent may request.
type Type string

const (
	Bar     Type = "bar"
	Line    Type = "line"
	Pie     Type = "pie"
	Scatter Type = "scatter"
	Box     Type = "box"
	Hist    Type = "hist"
	Area    Type = "area"
)

// ErrUnsupportedType marks an unrecognized chart type tag. Reported to the
// user, never fatal to the conversation.
var ErrUnsupportedType = errors.New("unsupported chart type")

// DataError carries the offending payload alongside the human message so
// malformed producer output stays diagnosable.
type DataError struct {
	Reason  string
	Payload models.ChartData
}

func (e *DataError) Error() string {
	payload, _ := json.Marshal(e.Payload)
	return fmt.Sprintf("图表数据格式错误: %s (数据: %s)", e.Reason, payload)
}

// Render normalizes the chart data, dispatches on the type tag and writes a
// self-contained HTML chart artifact into outDir. Returns the artifact
// filename.
func Render(spec models.ChartSpec, outDir string) (string, error) {
	typ := Type(spec.Type)
	switch typ {
	case Bar, Line, Pie, Scatter, Box, Hist, Area:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, spec.Type)
	}

	headers, cats, vals, err := normalize(spec.Data)
	if err != nil {
		return "", err
	}

	title := spec.Title
	if title == "" {
		title = defaultTitle(typ)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	filename := fmt.Sprintf("chart_%s_%s_%s.html",
		typ, time.Now().Format("20060102_150405"), uuid.New().String()[:8])

	f, err := os.Create(filepath.Join(outDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := draw(f, typ, title, headers, cats, vals); err != nil {
		return "", err
	}
	return filename, nil
}

func draw(f *os.File, typ Type, title string, headers [2]string, cats []string, vals []float64) error {
	titleOpt := charts.WithTitleOpts(opts.Title{Title: title})

	switch typ {
	case Bar:
		chart := charts.NewBar()
		chart.SetGlobalOptions(titleOpt)
		chart.SetXAxis(cats).AddSeries(headers[1], barData(vals))
		return chart.Render(f)

	case Line:
		chart := charts.NewLine()
		chart.SetGlobalOptions(titleOpt)
		chart.SetXAxis(cats).AddSeries(headers[1], lineData(vals),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: true}))
		return chart.Render(f)

	case Area:
		chart := charts.NewLine()
		chart.SetGlobalOptions(titleOpt)
		chart.SetXAxis(cats).AddSeries(headers[1], lineData(vals),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.3}))
		return chart.Render(f)

	case Pie:
		// First column supplies labels, second the values.
		items := make([]opts.PieData, len(vals))
		for i, v := range vals {
			items[i] = opts.PieData{Name: cats[i], Value: v}
		}
		chart := charts.NewPie()
		chart.SetGlobalOptions(titleOpt)
		chart.AddSeries(headers[1], items)
		return chart.Render(f)

	case Scatter:
		chart := charts.NewScatter()
		chart.SetGlobalOptions(titleOpt)
		items := make([]opts.ScatterData, len(vals))
		for i, v := range vals {
			items[i] = opts.ScatterData{Value: v}
		}
		chart.SetXAxis(cats).AddSeries(headers[1], items)
		return chart.Render(f)

	case Box:
		// Single-column distribution of the value column.
		chart := charts.NewBoxPlot()
		chart.SetGlobalOptions(titleOpt)
		chart.SetXAxis([]string{headers[1]}).
			AddSeries(headers[1], []opts.BoxPlotData{{Value: fiveNumber(vals)}})
		return chart.Render(f)

	case Hist:
		labels, counts := histogram(vals, 10)
		chart := charts.NewBar()
		chart.SetGlobalOptions(titleOpt)
		chart.SetXAxis(labels).AddSeries(headers[1], barData(counts))
		return chart.Render(f)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
}

func barData(vals []float64) []opts.BarData {
	items := make([]opts.BarData, len(vals))
	for i, v := range vals {
		items[i] = opts.BarData{Value: v}
	}
	return items
}

func lineData(vals []float64) []opts.LineData {
	items := make([]opts.LineData, len(vals))
	for i, v := range vals {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

// fiveNumber computes min, Q1, median, Q3, max for a boxplot series.
func fiveNumber(vals []float64) []float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q := func(p float64) float64 {
		if len(sorted) == 1 {
			return sorted[0]
		}
		pos := p * float64(len(sorted)-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		frac := pos - float64(lo)
		return sorted[lo]*(1-frac) + sorted[hi]*frac
	}
	return []float64{sorted[0], q(0.25), q(0.5), q(0.75), sorted[len(sorted)-1]}
}

func histogram(vals []float64, bins int) ([]string, []float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []string{strconv.FormatFloat(lo, 'g', 4, 64)}, []float64{float64(len(vals))}
	}

	width := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range vals {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	labels := make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.4g-%.4g", lo+float64(i)*width, lo+float64(i+1)*width)
	}
	return labels, counts
}

func defaultTitle(typ Type) string {
	switch typ {
	case Bar:
		return "柱状图"
	case Line:
		return "折线图"
	case Pie:
		return "饼图"
	case Scatter:
		return "散点图"
	case Box:
		return "箱线图"
	case Hist:
		return "直方图"
	case Area:
		return "面积图"
	}
	return "默认图表"
}
