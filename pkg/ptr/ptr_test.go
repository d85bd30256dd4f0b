package ptr

import (
	"reflect"
	"testing"
)

// TestPointer tests the Pointer function
func TestPointer(t *testing.T) {
	t.Run("int pointer", func(t *testing.T) {
		value := 42
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if *ptr != value {
			t.Errorf("*Pointer(%d) = %d, want %d", value, *ptr, value)
		}
	})

	t.Run("string pointer", func(t *testing.T) {
		value := "hello"
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if *ptr != value {
			t.Errorf("*Pointer(%q) = %q, want %q", value, *ptr, value)
		}
	})

	t.Run("bool pointer", func(t *testing.T) {
		value := true
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if *ptr != value {
			t.Errorf("*Pointer(%v) = %v, want %v", value, *ptr, value)
		}
	})

	t.Run("float64 pointer", func(t *testing.T) {
		value := 3.14
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if *ptr != value {
			t.Errorf("*Pointer(%f) = %f, want %f", value, *ptr, value)
		}
	})

	t.Run("struct pointer", func(t *testing.T) {
		type Person struct {
			Name string
			Age  int
		}
		value := Person{Name: "Alice", Age: 30}
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if !reflect.DeepEqual(*ptr, value) {
			t.Errorf("*Pointer() = %+v, want %+v", *ptr, value)
		}
	})

	t.Run("slice pointer", func(t *testing.T) {
		value := []int{1, 2, 3}
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if !reflect.DeepEqual(*ptr, value) {
			t.Errorf("*Pointer() = %v, want %v", *ptr, value)
		}
	})

	t.Run("map pointer", func(t *testing.T) {
		value := map[string]int{"a": 1, "b": 2}
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if !reflect.DeepEqual(*ptr, value) {
			t.Errorf("*Pointer() = %v, want %v", *ptr, value)
		}
	})
}

// TestPointer_ZeroValues tests Pointer with zero values
func TestPointer_ZeroValues(t *testing.T) {
	t.Run("zero int", func(t *testing.T) {
		value := 0
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil for zero value")
		}

		if *ptr != 0 {
			t.Errorf("*Pointer(0) = %d, want 0", *ptr)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		value := ""
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil for empty string")
		}

		if *ptr != "" {
			t.Errorf("*Pointer(\"\") = %q, want \"\"", *ptr)
		}
	})

	t.Run("false bool", func(t *testing.T) {
		value := false
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil for false")
		}

		if *ptr != false {
			t.Errorf("*Pointer(false) = %v, want false", *ptr)
		}
	})

	t.Run("nil slice", func(t *testing.T) {
		var value []int
		ptr := Pointer(value)

		if ptr == nil {
			t.Fatal("Pointer() returned nil")
		}

		if *ptr != nil {
			t.Errorf("*Pointer(nil slice) = %v, want nil", *ptr)
		}
	})
}

// TestPointer_Independence tests that pointer changes don't affect original
func TestPointer_Independence(t *testing.T) {
	t.Run("modify through pointer doesn't affect original", func(t *testing.T) {
		original := 42
		ptr := Pointer(original)
		*ptr = 100

		if original != 42 {
			t.Errorf("original value changed to %d, want 42", original)
		}

		if *ptr != 100 {
			t.Errorf("pointer value = %d, want 100", *ptr)
		}
	})
}

// BenchmarkPointer benchmarks the Pointer function
func BenchmarkPointer(b *testing.B) {
	b.Run("int", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Pointer(42)
		}
	})

	b.Run("string", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Pointer("hello")
		}
	})

	b.Run("struct", func(b *testing.B) {
		type Person struct {
			Name string
			Age  int
		}
		person := Person{Name: "Alice", Age: 30}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = Pointer(person)
		}
	})
}
