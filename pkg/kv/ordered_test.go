package kv

import (
	"iter"
	"testing"
)

func TestNewOrderedKV(t *testing.T) {
	k := NewOrderedKV[string, string]()
	k.Put("a", "1").
		Put("b", "2").
		Put("c", "3")

	if k.Size() != 3 {
		t.Errorf("Size() = %v, want 3", k.Size())
	}
	if !k.ContainsKey("b") {
		t.Error("ContainsKey(\"b\") = false, want true")
	}
	if v := k.Value("b"); v != "2" {
		t.Errorf("Value(\"b\") = %q, want \"2\"", v)
	}
}

func TestOrderedKV_PutOverwritesWithoutReordering(t *testing.T) {
	k := NewOrderedKV[string, int]()
	k.Put("a", 1).Put("b", 2).Put("a", 10)

	if k.Size() != 2 {
		t.Errorf("Size() = %v, want 2", k.Size())
	}

	var keys []string
	for key := range k.Iterator() {
		keys = append(keys, key)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("insertion order = %v, want [a b]", keys)
	}
	if v := k.Value("a"); v != 10 {
		t.Errorf("Value(\"a\") after overwrite = %v, want 10", v)
	}
}

func TestOrderedKV_Iterator(t *testing.T) {
	k := NewOrderedKV[string, string]()
	k.Put("a", "1").
		Put("b", "2").
		Put("c", "3").
		Put("d", "4").
		Put("e", "5")

	seq := k.Iterator()
	next, stop := iter.Pull2(seq)
	var seen []string
	for {
		key, _, ok := next()
		if !ok {
			break
		}
		seen = append(seen, key)
		if key == "c" {
			stop()
			break
		}
	}
	want := []string{"a", "b", "c"}
	if len(seen) != len(want) {
		t.Fatalf("iterated %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("iterated[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestOrderedKV_ZeroValueForMissingKey(t *testing.T) {
	k := NewOrderedKV[string, int]()
	if v := k.Value("missing"); v != 0 {
		t.Errorf("Value(\"missing\") = %v, want 0", v)
	}
	if k.ContainsKey("missing") {
		t.Error("ContainsKey(\"missing\") = true, want false")
	}
}
