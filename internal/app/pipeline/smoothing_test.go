package pipeline

import (
	"errors"
	"testing"

	"Backend-Plotter/internal/app/ds"
)

func TestSmoothWindowOneIsIdentity(t *testing.T) {
	table := seriesTable(0.1, 0.2, 0.3, 1e9, -7.25)
	table.Rows[2].Values[0] = ds.Missing()

	smoothed, err := Smooth(table, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := smoothed.Series(0)
	for i, want := range table.Series(0) {
		if got[i] != want {
			t.Errorf("Value at index %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestSmoothSlidingMean(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	for _, w := range []int{2, 3, 5, 8} {
		smoothed, err := Smooth(seriesTable(values...), w)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		want := make([]ds.Value, len(values))
		for i := w - 1; i < len(values); i++ {
			sum := 0.0
			for _, v := range values[i-w+1 : i+1] {
				sum += v
			}
			want[i] = ds.Some(sum / float64(w))
		}

		assertValues(t, smoothed.Series(0), want)
	}
}

func TestSmoothMissingPropagates(t *testing.T) {
	table := seriesTable(1, 2, 3, 4, 5, 6)
	table.Rows[2].Values[0] = ds.Missing()

	smoothed, err := Smooth(table, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertValues(t, smoothed.Series(0), []ds.Value{
		ds.Missing(), ds.Some(1.5), ds.Missing(), ds.Missing(), ds.Some(4.5), ds.Some(5.5),
	})
}

func TestSmoothWindowLargerThanRows(t *testing.T) {
	smoothed, err := Smooth(seriesTable(1, 2, 3), 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, v := range smoothed.Series(0) {
		if v.Valid {
			t.Errorf("Value at index %d: expected missing, got %f", i, v.Float)
		}
	}
}

func TestSmoothEmptyTable(t *testing.T) {
	smoothed, err := Smooth(ds.NewTable([]string{"A", "B"}), 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !smoothed.IsEmpty() {
		t.Errorf("Expected empty table, got %d rows", smoothed.Len())
	}
}

func TestSmoothInvalidWindow(t *testing.T) {
	for _, w := range []int{0, -1, -100} {
		_, err := Smooth(seriesTable(1, 2, 3), w)
		var we *InvalidWindowError
		if !errors.As(err, &we) {
			t.Fatalf("Window %d: expected InvalidWindowError, got %v", w, err)
		}
		if we.Window != w {
			t.Errorf("Expected window %d in error, got %d", w, we.Window)
		}
	}
}

func TestSmoothKeepsTimestamps(t *testing.T) {
	table := seriesTable(1, 2, 3)
	smoothed, err := Smooth(table, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := range table.Rows {
		if !smoothed.Rows[i].Time.Equal(table.Rows[i].Time) {
			t.Errorf("Row %d: expected time %v, got %v", i, table.Rows[i].Time, smoothed.Rows[i].Time)
		}
	}
	if table.Rows[0].Values[0].Float != 1 {
		t.Error("Input table was modified")
	}
}
