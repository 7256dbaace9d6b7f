package pipeline

import "Backend-Plotter/internal/app/ds"

// Smooth заменяет каждую колонку ряда скользящим средним по window
// последним строкам. Первые window-1 значений и окна с пропусками
// дают пустое значение. Метки времени не изменяются.
func Smooth(t *ds.Table, window int) (*ds.Table, error) {
	if window < 1 {
		return nil, &InvalidWindowError{Window: window}
	}

	out := ds.NewTable(t.Columns)
	out.Rows = make([]ds.Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = ds.Row{Time: row.Time, Values: make([]ds.Value, len(t.Columns))}
	}

	for col := range t.Columns {
		smoothed := MovingAverage(t.Series(col), window)
		for i, v := range smoothed {
			out.Rows[i].Values[col] = v
		}
	}

	return out, nil
}

// MovingAverage вычисляет скользящее среднее с окном window.
// Результат имеет ту же длину, что и входной ряд.
func MovingAverage(values []ds.Value, window int) []ds.Value {
	result := make([]ds.Value, len(values))
	if window < 1 {
		return result
	}

	// missing число пропусков в текущем окне
	missing := 0
	for i, v := range values {
		if !v.Valid {
			missing++
		}
		if i >= window && !values[i-window].Valid {
			missing--
		}
		if i < window-1 || missing > 0 {
			continue
		}

		// Сумма считается заново, чтобы не накапливать ошибку округления
		sum := 0.0
		for _, w := range values[i-window+1 : i+1] {
			sum += w.Float
		}
		result[i] = ds.Some(sum / float64(window))
	}

	return result
}
