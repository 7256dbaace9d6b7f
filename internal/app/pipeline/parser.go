package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"Backend-Plotter/internal/app/ds"

	"github.com/xuri/excelize/v2"
)

// Format формат загруженного файла
type Format string

const (
	FormatCSV         Format = "csv"
	FormatSpreadsheet Format = "spreadsheet"
)

// FormatFromFilename определяет формат по расширению файла
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatSpreadsheet, nil
	}
	return "", parseErr(fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(name)), nil)
}

// Форматы метки времени перебираются по порядку
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2",
	// Месяц и день без ведущего нуля принимают и 1/2, и 01/02
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

var utf8BOM = []byte("\ufeff")

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"None": true,
	"-":    true,
}

// Parse разбирает загруженный файл в таблицу временного ряда.
// Входной буфер не изменяется.
func Parse(data []byte, format Format) (*ds.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, parseErr("file is empty", nil)
	}

	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatSpreadsheet:
		return parseSpreadsheet(data)
	}
	return nil, parseErr(fmt.Sprintf("unknown format %q", format), nil)
}

func parseCSV(data []byte) (*ds.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, parseErr("invalid CSV header", err)
	}

	builder, err := newTableBuilder(header)
	if err != nil {
		return nil, err
	}

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, rowErr(row, "invalid CSV record", err)
		}
		if err := builder.add(row, record, parseTimeString); err != nil {
			return nil, err
		}
	}

	return builder.table, nil
}

func parseSpreadsheet(data []byte) (*ds.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, parseErr("invalid spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseErr("spreadsheet has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseErr("failed to read sheet "+sheets[0], err)
	}

	// Пропускаем пустые строки перед заголовком
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, parseErr("spreadsheet is empty", nil)
	}

	builder, err := newTableBuilder(rows[start])
	if err != nil {
		return nil, err
	}

	row := 0
	for _, record := range rows[start+1:] {
		if isBlank(record) {
			continue
		}
		row++
		if err := builder.add(row, record, parseTimeCell); err != nil {
			return nil, err
		}
	}

	return builder.table, nil
}

type tableBuilder struct {
	table   *ds.Table
	timeIdx int
	// seriesIdx индексы колонок файла для каждой колонки ряда
	seriesIdx []int
}

func newTableBuilder(header []string) (*tableBuilder, error) {
	b := &tableBuilder{timeIdx: -1}
	seen := make(map[string]bool, len(header))
	var columns []string

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			return nil, parseErr(fmt.Sprintf("duplicate column %q", name), nil)
		}
		seen[name] = true

		if name == ds.TimeColumn {
			b.timeIdx = i
			continue
		}
		columns = append(columns, name)
		b.seriesIdx = append(b.seriesIdx, i)
	}

	if b.timeIdx < 0 {
		return nil, parseErr(fmt.Sprintf("column %q not found", ds.TimeColumn), nil)
	}

	b.table = ds.NewTable(columns)
	return b, nil
}

func (b *tableBuilder) add(row int, record []string, parseTime func(string) (time.Time, error)) error {
	ts, err := parseTime(cell(record, b.timeIdx))
	if err != nil {
		return rowErr(row, "invalid "+ds.TimeColumn+" value", err)
	}

	values := make([]ds.Value, len(b.seriesIdx))
	for i, idx := range b.seriesIdx {
		values[i] = parseNumber(cell(record, idx))
	}

	b.table.Rows = append(b.table.Rows, ds.Row{Time: ts, Values: values})
	return nil
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseNumber(s string) ds.Value {
	if missingTokens[s] {
		return ds.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ds.Missing()
	}
	return ds.Some(v)
}

func parseTimeString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseTimeCell понимает как текстовые метки, так и числовые даты Excel
func parseTimeCell(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		ts, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return ts, nil
	}
	return parseTimeString(s)
}
