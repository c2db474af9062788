package set

import "testing"

func TestAddContains(t *testing.T) {
	s := New(1, 2, 3)
	if !s.Contains(2) {
		t.Error("expected set to contain 2")
	}
	if s.Contains(5) {
		t.Error("expected set to not contain 5")
	}
	if s.Size() != 3 {
		t.Errorf("expected size 3, got %d", s.Size())
	}
}

func TestRemove(t *testing.T) {
	s := New("a", "b")
	s.Remove("a")
	if s.Contains("a") {
		t.Error("expected 'a' to be removed")
	}
	if s.Size() != 1 {
		t.Errorf("expected size 1, got %d", s.Size())
	}
}

func TestIsSubset(t *testing.T) {
	a := New(1, 2)
	b := New(1, 2, 3)
	if !a.IsSubset(b) {
		t.Error("expected a to be a subset of b")
	}
	if b.IsSubset(a) {
		t.Error("expected b to not be a subset of a")
	}
}

func TestValues(t *testing.T) {
	s := New(1, 2, 3)
	vals := s.Values()
	if len(vals) != 3 {
		t.Fatalf("expected 3 values, got %d", len(vals))
	}
	seen := New(vals...)
	if !seen.IsSubset(s) || !s.IsSubset(seen) {
		t.Error("Values() did not round-trip through New")
	}
}
