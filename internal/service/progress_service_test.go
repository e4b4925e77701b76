package service

import "testing"

func TestProgressIncrement(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  float64
	}{
		{"四个条目", 4, 25},
		{"三个条目", 3, 100.0 / 3},
		{"单条目", 1, 100},
		{"无条目", 0, 0},
		{"负数防御", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressIncrement(tt.total); got != tt.want {
				t.Errorf("ProgressIncrement(%d) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}
