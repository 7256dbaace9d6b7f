package pipeline

import (
	"fmt"

	"Backend-Plotter/internal/app/ds"
)

// TableTimeLayout формат метки времени в табличном представлении
const TableTimeLayout = "2006-01-02 15:04:05"

// ProjectionMeta данные для заголовка графика
type ProjectionMeta struct {
	Range    ds.DateRange
	Filename string
}

// Title возвращает заголовок вида "2024-01-01 to 2024-01-31 (data.csv)"
func (m ProjectionMeta) Title() string {
	return fmt.Sprintf("%s to %s (%s)",
		m.Range.Start.Format(ds.DateLayout), m.Range.End.Format(ds.DateLayout), m.Filename)
}

// Project строит описание графика и таблицы по сглаженной таблице.
// Для пустой таблицы возвращается график без линий и пустая таблица.
func Project(t *ds.Table, meta ProjectionMeta) (ds.ChartSpec, ds.TableView) {
	return projectChart(t, meta), projectTable(t)
}

func projectChart(t *ds.Table, meta ProjectionMeta) ds.ChartSpec {
	chart := ds.ChartSpec{
		Title:       meta.Title(),
		XAxisTitle:  ds.TimeColumn,
		YAxisTitle:  ds.ValuesAxisTitle,
		RangeSlider: true,
		HoverMode:   ds.HoverModeUnified,
		Height:      ds.DefaultChartHeight,
		Traces:      []ds.Trace{},
	}
	if t.IsEmpty() {
		return chart
	}

	for col, name := range t.Columns {
		points := make([]ds.Point, len(t.Rows))
		for i, row := range t.Rows {
			points[i] = ds.Point{Time: row.Time, Value: row.Values[col]}
		}
		chart.Traces = append(chart.Traces, ds.Trace{
			Name:          name,
			Mode:          ds.TraceModeLines,
			LineWidth:     3,
			LineSmoothing: 1.0,
			HoverTemplate: ds.HoverTemplateRaw,
			Points:        points,
		})
	}

	return chart
}

func projectTable(t *ds.Table) ds.TableView {
	view := ds.TableView{
		Columns: []ds.TableColumn{},
		Records: []map[string]interface{}{},
	}
	if t.IsEmpty() {
		return view
	}

	view.Columns = append(view.Columns, ds.TableColumn{Name: ds.TimeColumn, ID: ds.TimeColumn})
	for _, name := range t.Columns {
		view.Columns = append(view.Columns, ds.TableColumn{Name: name, ID: name})
	}

	for _, row := range t.Rows {
		record := make(map[string]interface{}, len(t.Columns)+1)
		record[ds.TimeColumn] = row.Time.Format(TableTimeLayout)
		for i, name := range t.Columns {
			record[name] = row.Values[i].Interface()
		}
		view.Records = append(view.Records, record)
	}

	return view
}
