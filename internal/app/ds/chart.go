package ds

import "time"

const (
	TraceModeLines     = "lines"
	HoverModeUnified   = "x unified"
	HoverTemplateRaw   = "%{y}"
	DefaultChartHeight = 800
	ValuesAxisTitle    = "Values"
)

// Point точка линии графика; пустое Value означает разрыв линии
type Point struct {
	Time  time.Time `json:"x"`
	Value Value     `json:"y"`
}

// Trace линия графика для одной колонки
type Trace struct {
	Name          string  `json:"name"`
	Mode          string  `json:"mode"`
	LineWidth     int     `json:"line_width"`
	LineSmoothing float64 `json:"line_smoothing"`
	HoverTemplate string  `json:"hovertemplate"`
	Points        []Point `json:"points"`
}

// ChartSpec описание линейного графика для внешнего виджета
type ChartSpec struct {
	Title       string  `json:"title"`
	XAxisTitle  string  `json:"xaxis_title"`
	YAxisTitle  string  `json:"yaxis_title"`
	RangeSlider bool    `json:"xaxis_rangeslider_visible"`
	HoverMode   string  `json:"hovermode"`
	Height      int     `json:"height"`
	Traces      []Trace `json:"traces"`
}

// TableColumn колонка табличного представления
type TableColumn struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// TableView табличное представление отфильтрованных и сглаженных строк
type TableView struct {
	Columns []TableColumn            `json:"columns"`
	Records []map[string]interface{} `json:"records"`
}

// Len возвращает количество записей
func (v TableView) Len() int {
	return len(v.Records)
}

// Page возвращает одну страницу таблицы
func (v TableView) Page(page, pageSize int) TablePage {
	if pageSize <= 0 {
		pageSize = DefaultTablePageSize
	}
	if page < 1 {
		page = 1
	}

	total := int64(len(v.Records))
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	offset := (page - 1) * pageSize
	records := []map[string]interface{}{}
	if offset < len(v.Records) {
		end := offset + pageSize
		if end > len(v.Records) {
			end = len(v.Records)
		}
		records = v.Records[offset:end]
	}

	return TablePage{
		TableView: TableView{Columns: v.Columns, Records: records},
		Pagination: PaginationInfo{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// TablePage страница таблицы с метаданными пагинации
type TablePage struct {
	TableView
	Pagination PaginationInfo `json:"pagination"`
}

// Result результат одного прогона конвейера
type Result struct {
	Chart ChartSpec `json:"chart"`
	Table TableView `json:"table"`
}
