package dataframe

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column is an ordered sequence of values under one header. Values are
// float64 when every cell parses as a number, otherwise string.
type Column struct {
	Name   string
	Values []any
}

// Frame is an in-memory tabular dataset: ordered named columns of equal length.
type Frame struct {
	Columns     []Column
	Sheet       string   // active sheet, XLSX only
	SheetNames  []string // all sheets, XLSX only
}

// ParseCSV reads a headered CSV document into a Frame.
func ParseCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // tolerate ragged rows, fromRecords pads them
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	return fromRecords(records)
}

// ParseXLSX reads one sheet of an XLSX workbook into a Frame. An empty sheet
// name selects the first sheet. SheetNames on the result lists all sheets so
// the caller can offer re-parsing on selection change.
func ParseXLSX(data []byte, sheet string) (*Frame, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	names := wb.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}
	if sheet == "" {
		sheet = names[0]
	}
	found := false
	for _, n := range names {
		if n == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("sheet %q not found in workbook", sheet)
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	f, err := fromRecords(rows)
	if err != nil {
		return nil, err
	}
	f.Sheet = sheet
	f.SheetNames = names
	return f, nil
}

func fromRecords(records [][]string) (*Frame, error) {
	headers := records[0]
	if len(headers) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	cols := make([]Column, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		cols[i] = Column{Name: name}
	}

	numeric := make([]bool, len(headers))
	for i := range numeric {
		numeric[i] = true
	}

	raw := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		// Ragged rows (common in hand-edited sheets) are padded with blanks.
		row := make([]string, len(headers))
		for i := range row {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		raw = append(raw, row)
		for i, cell := range row {
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[i] = false
			}
		}
	}

	for _, row := range raw {
		for i, cell := range row {
			if numeric[i] && cell != "" {
				v, _ := strconv.ParseFloat(cell, 64)
				cols[i].Values = append(cols[i].Values, v)
			} else {
				cols[i].Values = append(cols[i].Values, cell)
			}
		}
	}

	return &Frame{Columns: cols}, nil
}

// Rows returns the number of data rows.
func (f *Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0].Values)
}

// ColumnNames returns headers in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (f *Frame) Column(name string) *Column {
	for i := range f.Columns {
		if f.Columns[i].Name == name {
			return &f.Columns[i]
		}
	}
	return nil
}

// Head renders the first n rows as an aligned text table, the preview embedded
// into agent prompts.
func (f *Frame) Head(n int) string {
	if n > f.Rows() {
		n = f.Rows()
	}

	widths := make([]int, len(f.Columns))
	cells := make([][]string, n+1)
	cells[0] = make([]string, len(f.Columns))
	for j, c := range f.Columns {
		cells[0][j] = c.Name
		widths[j] = len([]rune(c.Name))
	}
	for i := 0; i < n; i++ {
		cells[i+1] = make([]string, len(f.Columns))
		for j, c := range f.Columns {
			s := formatCell(c.Values[i])
			cells[i+1][j] = s
			if w := len([]rune(s)); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	for i, row := range cells {
		for j, s := range row {
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(s)
			b.WriteString(strings.Repeat(" ", widths[j]-len([]rune(s))))
		}
		if i < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
