package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// passthrough returns coefficients for a unity gain passthrough (B0=1, all else 0).
func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

func smoothing() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_Passthrough(t *testing.T) {
	s := NewSection(passthrough())
	for i, x := range []float64{1, 0, -1, 0.5, 0.25} {
		if y := s.ProcessSample(x); !almostEqual(y, x, eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced impulse response:
	// n=0: y=0.25,  d0=0.55,    d1=0.24
	// n=1: y=0.55,  d0=0.35,    d1=-0.022
	// n=2: y=0.35,  d0=0.048,   d1=-0.014
	// n=3: y=0.048, d0=-0.0044, d1=-0.00192
	s := NewSection(smoothing())

	want := []float64{0.25, 0.55, 0.35, 0.048, -0.0044}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("n=%d: got %v, want %v", i, y, w)
		}
	}
}

func TestBlockKernel_MatchesProcessSample(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 64} {
		input := make([]float64, n)
		for i := range input {
			input[i] = math.Sin(float64(i)*0.3) + 0.1*float64(i%3)
		}

		ref := NewSection(smoothing())
		want := make([]float64, n)
		for i, x := range input {
			want[i] = ref.ProcessSample(x)
		}

		s := NewSection(smoothing())
		got := append([]float64(nil), input...)
		s.d0, s.d1 = processBlock(s.Coefficients, s.d0, s.d1, got)

		for i := range want {
			if !almostEqual(got[i], want[i], eps) {
				t.Fatalf("n=%d index %d: block=%v, sample=%v", n, i, got[i], want[i])
			}
		}
		if s.State() != ref.State() {
			t.Fatalf("n=%d: final state mismatch: %v vs %v", n, s.State(), ref.State())
		}
	}
}

func TestResetAndSetState(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)
	saved := s.State()

	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("state after Reset: %v", s.State())
	}

	s.SetState(saved)
	if s.State() != saved {
		t.Fatalf("SetState: got %v, want %v", s.State(), saved)
	}
}

func TestOrderAndFirstOrder(t *testing.T) {
	if (Coefficients{B0: 0.5, B1: 0.5, A1: -0.1}).Order() != 1 {
		t.Fatal("expected first-order section")
	}
	if smoothing().Order() != 2 {
		t.Fatal("expected second-order section")
	}
}

func TestDCGain(t *testing.T) {
	g, ok := smoothing().DCGain()
	if !ok || !almostEqual(g, 1/0.84, 1e-12) {
		t.Fatalf("DCGain() = %v, %v; want %v", g, ok, 1/0.84)
	}

	// Pole at z=1: integrator.
	if _, ok := (Coefficients{B0: 1, A1: -1}).DCGain(); ok {
		t.Fatal("expected DCGain to fail for a pole at z=1")
	}
}

func TestSteadyStateHasNoTransient(t *testing.T) {
	c := smoothing()
	const u = 3.5

	state, level := c.SteadyState(u)
	s := NewSection(c)
	s.SetState(state)

	for i := 0; i < 16; i++ {
		if y := s.ProcessSample(u); !almostEqual(y, level, 1e-12) {
			t.Fatalf("sample %d: y=%v, want steady level %v", i, y, level)
		}
	}
}

func TestSteadyStateSingularSection(t *testing.T) {
	state, level := (Coefficients{B0: 1, A1: -1}).SteadyState(2)
	if state != [2]float64{} || level != 0 {
		t.Fatalf("SteadyState() = %v, %v; want zero state", state, level)
	}
}
