package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestEnsureLenGrows(t *testing.T) {
	out := EnsureLen(nil, 3)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}

	if got := EnsureLen(out, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestEnsureComplexLen(t *testing.T) {
	buf := make([]complex128, 1, 5)
	out := EnsureComplexLen(buf, 5)
	if len(out) != 5 || cap(out) != 5 {
		t.Fatalf("len/cap = %d/%d, want 5/5", len(out), cap(out))
	}
	if got := EnsureComplexLen(out, 9); len(got) != 9 {
		t.Fatalf("len = %d, want 9", len(got))
	}
}
