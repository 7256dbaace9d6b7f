package pipeline

import "Backend-Plotter/internal/app/ds"

// Filter оставляет строки, дата которых попадает в [r.Start, r.End].
// Порядок строк сохраняется, исходная таблица не изменяется.
// Если start > end, результат пустой.
func Filter(t *ds.Table, r ds.DateRange) *ds.Table {
	out := ds.NewTable(t.Columns)
	for _, row := range t.Rows {
		if !r.Contains(row.Time) {
			continue
		}
		values := make([]ds.Value, len(row.Values))
		copy(values, row.Values)
		out.Rows = append(out.Rows, ds.Row{Time: row.Time, Values: values})
	}
	return out
}
