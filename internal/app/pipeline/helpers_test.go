package pipeline

import (
	"math"
	"testing"
	"time"

	"Backend-Plotter/internal/app/ds"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

// seriesTable строит таблицу с одной колонкой A и метками 2024-01-01, 2024-01-02, ...
func seriesTable(values ...float64) *ds.Table {
	t := ds.NewTable([]string{"A"})
	for i, v := range values {
		t.Rows = append(t.Rows, ds.Row{Time: day(i + 1), Values: []ds.Value{ds.Some(v)}})
	}
	return t
}

func assertValues(t *testing.T, got []ds.Value, want []ds.Value) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Valid != want[i].Valid {
			t.Errorf("Value at index %d: expected valid=%t, got valid=%t", i, want[i].Valid, got[i].Valid)
			continue
		}
		if want[i].Valid && math.Abs(got[i].Float-want[i].Float) > 1e-10 {
			t.Errorf("Value at index %d: expected %f, got %f", i, want[i].Float, got[i].Float)
		}
	}
}
