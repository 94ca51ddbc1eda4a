package biquad_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
	"github.com/cwbudde/algo-eeg/dsp/filter/design/pass"
	"github.com/cwbudde/algo-eeg/internal/testutil"
)

func TestFiltFiltButterworthIsZeroPhase(t *testing.T) {
	const (
		sr   = 250.0
		n    = 1000
		freq = 10.0
	)

	coeffs := pass.ButterworthLP(40, 4, sr)
	src := testutil.DeterministicSine(freq, sr, 1, n)

	dst := make([]float64, n)
	if err := biquad.FiltFilt(dst, src, coeffs, 1); err != nil {
		t.Fatalf("FiltFilt() error = %v", err)
	}

	lo, hi := 250, 750
	if d := math.Abs(testutil.PhaseAt(dst, freq, sr, lo, hi) - testutil.PhaseAt(src, freq, sr, lo, hi)); d > 1e-3 {
		t.Fatalf("phase shift %.6f rad, want ~0", d)
	}

	// Single-pass filtering of the same signal is visibly delayed.
	chain := biquad.NewChain(coeffs)
	single := make([]float64, n)
	for i, x := range src {
		single[i] = chain.ProcessSample(x)
	}
	if d := math.Abs(testutil.PhaseAt(single, freq, sr, lo, hi) - testutil.PhaseAt(src, freq, sr, lo, hi)); d < 0.1 {
		t.Fatalf("single-pass phase shift %.6f rad unexpectedly small", d)
	}

	diff, err := testutil.MaxAbsDiff(dst[lo:hi], src[lo:hi])
	if err != nil {
		t.Fatal(err)
	}
	if diff > 1e-2 {
		t.Fatalf("max |filtered - input| = %v in passband, want < 1e-2", diff)
	}
}
