package biquad

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/buffer"
)

// ErrSignalTooShort is returned when a signal is not longer than the
// edge padding zero-phase filtering needs.
var ErrSignalTooShort = errors.New("biquad: signal too short for zero-phase padding")

// PadLength returns the number of samples reflected onto each end of the
// signal before zero-phase filtering a cascade of the given order: three
// times the tap count of its transfer function, 3*(order+1).
func PadLength(order int) int {
	return 3 * (order + 1)
}

// MinZeroPhaseLength returns the shortest signal FiltFilt accepts for a
// cascade of the given order.
func MinZeroPhaseLength(order int) int {
	return PadLength(order) + 1
}

// FiltFilt applies the cascade described by coeffs (with input gain) to src
// once forward and once backward in time and writes the result to dst.
//
// The signal is extended at both ends by PadLength(order) samples of odd
// (point-symmetric) reflection and every pass starts from the steady state
// for its first input sample, which keeps edge transients small. The
// magnitude response is |H|^2 of the cascade and the phase response is zero.
//
// dst and src must have the same length and may alias. No state is kept
// between calls, so FiltFilt is safe to call concurrently with shared coeffs.
func FiltFilt(dst, src []float64, coeffs []Coefficients, gain float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("biquad: dst/src length mismatch: %d != %d", len(dst), len(src))
	}

	n := len(src)
	pad := PadLength(CascadeOrder(coeffs))
	if n <= pad {
		return fmt.Errorf("%w: %d samples, need at least %d", ErrSignalTooShort, n, pad+1)
	}

	scratch := buffer.Scratch.Get(n + 2*pad)
	defer buffer.Scratch.Put(scratch)

	ext := scratch.Samples()
	oddExtend(ext, src, pad)

	runCascade(ext, coeffs, gain)
	reverse(ext)
	runCascade(ext, coeffs, gain)
	reverse(ext)

	copy(dst, ext[pad:pad+n])

	return nil
}

// oddExtend writes src into ext[pad:pad+len(src)] and fills both pads with
// 2*edge - mirror, continuing the local slope through each endpoint.
func oddExtend(ext, src []float64, pad int) {
	n := len(src)
	first, last := src[0], src[n-1]

	copy(ext[pad:], src)
	for k := 1; k <= pad; k++ {
		ext[pad-k] = 2*first - src[k]
		ext[pad+n-1+k] = 2*last - src[n-1-k]
	}
}

// runCascade filters buf in place, initializing every section to the steady
// state of its input level for a constant signal at buf[0].
func runCascade(buf []float64, coeffs []Coefficients, gain float64) {
	if len(buf) == 0 {
		return
	}

	if gain != 1 {
		for i, x := range buf {
			buf[i] = x * gain
		}
	}

	// A section with a pole at z=1 has no steady state; it and every
	// section after it start from rest.
	level := buf[0]
	for _, c := range coeffs {
		var state [2]float64
		state, level = c.SteadyState(level)
		processBlock(c, state[0], state[1], buf)
	}
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
