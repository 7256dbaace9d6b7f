package render

import (
	"fmt"
	"io"

	"Backend-Plotter/internal/app/ds"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	PageTitle = "Simple Time Series Plotter"

	axisTimeLayout = "2006-01-02 15:04:05"
	// gapValue маркер пропущенного значения в echarts
	gapValue = "-"
)

// valueOnlyTooltip подсказка с меткой времени и только значениями линий, без имен
const valueOnlyTooltip = `function (params) {
	var lines = [params.length ? params[0].axisValueLabel : ''];
	params.forEach(function (p) {
		if (p.value !== '-' && p.value !== undefined) {
			lines.push(p.marker + p.value);
		}
	});
	return lines.join('<br/>');
}`

// Chart отрисовывает описание графика в HTML-страницу echarts
func Chart(w io.Writer, spec ds.ChartSpec) error {
	line := NewLine(spec)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// NewLine строит линейный график echarts: подсказка по оси X для всех линий,
// ползунок выбора диапазона и по одной линии на колонку
func NewLine(spec ds.ChartSpec) *charts.Line {
	line := charts.NewLine()

	height := spec.Height
	if height <= 0 {
		height = ds.DefaultChartHeight
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: PageTitle,
			Width:     "100%",
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: spec.Title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: opts.FuncOpts(valueOnlyTooltip),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "30",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: spec.XAxisTitle,
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: spec.YAxisTitle,
			Type: "value",
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "5%",
			Right:  "5%",
			Top:    "80",
			Bottom: "120",
		}),
	)

	if spec.RangeSlider {
		line.SetGlobalOptions(charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}))
	}

	if len(spec.Traces) == 0 {
		line.SetXAxis([]string{})
		return line
	}

	// Все линии строятся по строкам одной таблицы, поэтому ось X общая
	labels := make([]string, len(spec.Traces[0].Points))
	for i, p := range spec.Traces[0].Points {
		labels[i] = p.Time.Format(axisTimeLayout)
	}
	line.SetXAxis(labels)

	for _, trace := range spec.Traces {
		data := make([]opts.LineData, len(trace.Points))
		for i, p := range trace.Points {
			if p.Value.Valid {
				data[i] = opts.LineData{Value: p.Value.Float}
			} else {
				data[i] = opts.LineData{Value: gapValue}
			}
		}

		line.AddSeries(trace.Name, data,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:       opts.Bool(trace.LineSmoothing > 0),
				ShowSymbol:   opts.Bool(false),
				ConnectNulls: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: float32(trace.LineWidth),
			}),
		)
	}

	return line
}
