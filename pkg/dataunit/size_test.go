package dataunit

import (
	"math"
	"testing"
)

func TestConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		expected int64
	}{
		{"B", B, 1},
		{"KB", KB, 1024},
		{"MB", MB, 1024 * 1024},
		{"GB", GB, 1024 * 1024 * 1024},
		{"TB", TB, 1024 * 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != tt.expected {
				t.Errorf("constant %s = %d, want %d", tt.name, tt.value, tt.expected)
			}
		})
	}
}

func TestDataSize_Int64(t *testing.T) {
	tests := []struct {
		name string
		size DataSize
		want int64
	}{
		{"zero value", DataSize(0), 0},
		{"positive number", DataSize(1024), 1024},
		{"negative number", DataSize(-1024), -1024},
		{"max int64", DataSize(math.MaxInt64), math.MaxInt64},
		{"min int64", DataSize(math.MinInt64), math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.Int64(); got != tt.want {
				t.Errorf("Int64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDataSize_Compare(t *testing.T) {
	tests := []struct {
		name  string
		size  DataSize
		other DataSize
		want  int
	}{
		{"equal", DataSize(1024), DataSize(1024), 0},
		{"less than", DataSize(512), DataSize(1024), -1},
		{"greater than", DataSize(2048), DataSize(1024), 1},
		{"zero comparison", DataSize(0), DataSize(0), 0},
		{"negative comparison less", DataSize(-100), DataSize(-50), -1},
		{"negative comparison greater", DataSize(-50), DataSize(-100), 1},
		{"negative vs positive", DataSize(-100), DataSize(100), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.Compare(tt.other); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}
