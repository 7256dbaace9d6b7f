package repository

import "testing"

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name               string
		page, pageSize     int
		wantPage, wantSize int
	}{
		{"defaults", 0, 0, 1, 8},
		{"negative page", -3, 10, 1, 10},
		{"size capped", 2, 500, 2, 50},
		{"unchanged", 4, 20, 4, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := normalizePage(tt.page, tt.pageSize)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("Expected (%d, %d), got (%d, %d)", tt.wantPage, tt.wantSize, page, size)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{100, 0, 0},
	}

	for _, tt := range tests {
		if got := totalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("totalPages(%d, %d): expected %d, got %d", tt.total, tt.pageSize, tt.want, got)
		}
	}
}
