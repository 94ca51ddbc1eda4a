package design

import (
	"math"

	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b1 := 1 - cw
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// NotchBandwidth designs a second-order notch at freq (Hz) whose quality
// factor q is the ratio of the center frequency to the width of the
// digital -3 dB band:
//
//	bw   = 2*pi*freq/sampleRate/q
//	beta = tan(bw/2)
//	H(z) = (1 - 2cos(w0)z^-1 + z^-2) / ((1+beta) - 2cos(w0)z^-1 + (1-beta)z^-2)
//
// Gain is exactly zero at freq and exactly one at DC and Nyquist.
// freq must lie strictly between 0 and sampleRate/2 and q must be positive;
// otherwise the zero value is returned.
func NotchBandwidth(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok || !(q > 0) || math.IsInf(q, 0) {
		return biquad.Coefficients{}
	}

	beta := math.Tan(w0 / q / 2)
	cw := math.Cos(w0)

	return normalizeBiquad(1, -2*cw, 1, 1+beta, -2*cw, 1-beta)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
