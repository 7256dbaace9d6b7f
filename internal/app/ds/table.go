// internal/app/ds/table.go
package ds

import (
	"encoding/json"
	"time"
)

// TimeColumn имя обязательной колонки с временной меткой
const TimeColumn = "Time"

// Value числовое значение ячейки, которое может отсутствовать
type Value struct {
	Float float64
	Valid bool
}

// Some возвращает заполненное значение
func Some(v float64) Value {
	return Value{Float: v, Valid: true}
}

// Missing возвращает пустое значение
func Missing() Value {
	return Value{}
}

// Interface возвращает float64 или nil для пустого значения
func (v Value) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Row строка таблицы: метка времени и значения, выровненные по Table.Columns
type Row struct {
	Time   time.Time `json:"time"`
	Values []Value   `json:"values"`
}

// Table временной ряд из нескольких числовых колонок.
// Порядок строк совпадает с порядком во входном файле.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable создает пустую таблицу с заданными колонками
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// Len возвращает количество строк
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty сообщает, что в таблице нет строк
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Series возвращает значения одной колонки по всем строкам
func (t *Table) Series(col int) []Value {
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values[col]
	}
	return out
}

// DateBounds возвращает минимальную и максимальную календарную дату меток.
// Дата берется в смещении самой метки, как и при фильтрации.
// Для пустой таблицы ok == false.
func (t *Table) DateBounds() (min, max time.Time, ok bool) {
	if t.IsEmpty() {
		return time.Time{}, time.Time{}, false
	}
	min = DateOf(t.Rows[0].Time)
	max = min
	for _, row := range t.Rows[1:] {
		d := DateOf(row.Time)
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, true
}
