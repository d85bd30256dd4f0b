package slices

import (
	"reflect"
	"testing"
)

func TestChunk(t *testing.T) {
	t.Run("evenly divisible", func(t *testing.T) {
		s := []int{1, 2, 3, 4, 5, 6}
		result := Chunk(s, 2)

		expected := [][]int{{1, 2}, {3, 4}, {5, 6}}

		if len(result) != len(expected) {
			t.Errorf("len(result) = %d, want %d", len(result), len(expected))
		}

		for i, chunk := range result {
			if !reflect.DeepEqual(chunk, expected[i]) {
				t.Errorf("result[%d] = %v, want %v", i, chunk, expected[i])
			}
		}
	})

	t.Run("not evenly divisible", func(t *testing.T) {
		s := []int{1, 2, 3, 4, 5}
		result := Chunk(s, 2)

		expected := [][]int{{1, 2}, {3, 4}, {5}}

		if len(result) != len(expected) {
			t.Errorf("len(result) = %d, want %d", len(result), len(expected))
		}

		for i, chunk := range result {
			if !reflect.DeepEqual(chunk, expected[i]) {
				t.Errorf("result[%d] = %v, want %v", i, chunk, expected[i])
			}
		}
	})

	t.Run("chunk size larger than slice", func(t *testing.T) {
		s := []int{1, 2, 3}
		result := Chunk(s, 10)

		if len(result) != 1 {
			t.Errorf("len(result) = %d, want 1", len(result))
		}

		if !reflect.DeepEqual(result[0], s) {
			t.Errorf("result[0] = %v, want %v", result[0], s)
		}
	})

	t.Run("chunk size equals slice length", func(t *testing.T) {
		s := []int{1, 2, 3}
		result := Chunk(s, 3)

		if len(result) != 1 {
			t.Errorf("len(result) = %d, want 1", len(result))
		}

		if !reflect.DeepEqual(result[0], s) {
			t.Errorf("result[0] = %v, want %v", result[0], s)
		}
	})

	t.Run("chunk size of 1", func(t *testing.T) {
		s := []int{1, 2, 3}
		result := Chunk(s, 1)

		expected := [][]int{{1}, {2}, {3}}

		if len(result) != len(expected) {
			t.Errorf("len(result) = %d, want %d", len(result), len(expected))
		}

		for i, chunk := range result {
			if !reflect.DeepEqual(chunk, expected[i]) {
				t.Errorf("result[%d] = %v, want %v", i, chunk, expected[i])
			}
		}
	})

	t.Run("empty slice", func(t *testing.T) {
		var s []int
		result := Chunk(s, 3)

		if len(result) != 0 {
			t.Errorf("len(result) = %d, want 0", len(result))
		}
	})

	t.Run("non-positive chunk size returns input as single chunk", func(t *testing.T) {
		s := []int{1, 2, 3}

		result := Chunk(s, 0)
		if len(result) != 1 || !reflect.DeepEqual(result[0], s) {
			t.Errorf("Chunk(s, 0) = %v, want [%v]", result, s)
		}

		result = Chunk(s, -1)
		if len(result) != 1 || !reflect.DeepEqual(result[0], s) {
			t.Errorf("Chunk(s, -1) = %v, want [%v]", result, s)
		}
	})

	t.Run("string slice", func(t *testing.T) {
		s := []string{"a", "b", "c", "d", "e"}
		result := Chunk(s, 2)

		expected := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}

		if !reflect.DeepEqual(result, expected) {
			t.Errorf("result = %v, want %v", result, expected)
		}
	})

	t.Run("capacity of chunks", func(t *testing.T) {
		s := []int{1, 2, 3, 4, 5, 6}
		result := Chunk(s, 2)

		// Each chunk should have capacity equal to its length
		// to prevent accidental modification
		for i, chunk := range result {
			if cap(chunk) != len(chunk) {
				t.Errorf("chunk[%d] cap = %d, want %d", i, cap(chunk), len(chunk))
			}
		}
	})

	t.Run("modification isolation", func(t *testing.T) {
		s := []int{1, 2, 3, 4}
		result := Chunk(s, 2)

		// Modify a chunk
		result[0][0] = 999

		// Original slice should be modified (shares backing array)
		if s[0] != 999 {
			t.Error("chunk modification should affect original slice")
		}
	})
}

func BenchmarkChunk(b *testing.B) {
	s := make([]int, 1000)
	for i := range s {
		s[i] = i
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Chunk(s, 64)
	}
}
