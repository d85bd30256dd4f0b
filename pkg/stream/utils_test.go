package stream

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestOfSliceReader(t *testing.T) {
	t.Run("EmptySlice", func(t *testing.T) {
		reader := OfSliceReader([]int{})
		ctx := context.Background()

		_, err := reader.Read(ctx)
		if !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF for empty slice, got %v", err)
		}
	})

	t.Run("SingleElement", func(t *testing.T) {
		reader := OfSliceReader([]int{42})
		ctx := context.Background()

		val, err := reader.Read(ctx)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if val != 42 {
			t.Errorf("Expected 42, got %d", val)
		}

		_, err = reader.Read(ctx)
		if !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF after single element, got %v", err)
		}
	})

	t.Run("MultipleElements", func(t *testing.T) {
		expected := []int{1, 2, 3, 4, 5}
		reader := OfSliceReader(expected)
		ctx := context.Background()

		for i, exp := range expected {
			val, err := reader.Read(ctx)
			if err != nil {
				t.Fatalf("Read %d failed: %v", i, err)
			}
			if val != exp {
				t.Errorf("Read %d: expected %d, got %d", i, exp, val)
			}
		}

		_, err := reader.Read(ctx)
		if !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF after all elements, got %v", err)
		}
	})

	t.Run("StringSlice", func(t *testing.T) {
		words := []string{"hello", "world", "test"}
		reader := OfSliceReader(words)
		ctx := context.Background()

		for i, expected := range words {
			val, err := reader.Read(ctx)
			if err != nil {
				t.Fatalf("Read %d failed: %v", i, err)
			}
			if val != expected {
				t.Errorf("Read %d: expected %s, got %s", i, expected, val)
			}
		}
	})
}
