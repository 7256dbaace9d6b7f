package ds

import (
	"fmt"
	"time"
)

const (
	// DateLayout формат даты в параметрах и заголовке графика
	DateLayout = "2006-01-02"

	DefaultWindowSize = 5
	MinWindowSize     = 1
	MaxWindowSize     = 100
)

// DateOf отбрасывает время суток, оставляя календарную дату метки
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате 2006-01-02
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// DateRange включительный диапазон календарных дат
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange нормализует границы до календарных дат
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DateOf(start), End: DateOf(end)}
}

// Contains проверяет, что дата метки лежит в [Start, End]
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(r.Start)) && !d.After(DateOf(r.End))
}

// Params параметры, выбираемые пользователем
type Params struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	WindowSize int       `json:"window_size"`
}

// Range возвращает диапазон дат из параметров
func (p Params) Range() DateRange {
	return NewDateRange(p.StartDate, p.EndDate)
}

// ParamsDTO представление параметров в API
type ParamsDTO struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	WindowSize int    `json:"window_size"`
}

// DTO возвращает параметры в формате API
func (p Params) DTO() ParamsDTO {
	return ParamsDTO{
		StartDate:  p.StartDate.Format(DateLayout),
		EndDate:    p.EndDate.Format(DateLayout),
		WindowSize: p.WindowSize,
	}
}

// ParamsUpdate частичное изменение параметров
type ParamsUpdate struct {
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	WindowSize *int    `json:"window_size"`
}

// DefaultParams параметры по умолчанию для только что загруженной таблицы
func DefaultParams(t *Table) Params {
	p := Params{WindowSize: DefaultWindowSize}
	if min, max, ok := t.DateBounds(); ok {
		p.StartDate = min
		p.EndDate = max
	}
	return p
}
