package biquad

import (
	"math"
	"math/cmplx"
)

// TransferFunction is the polynomial form of a cascade:
//
//	H(z) = (B[0] + B[1]z^-1 + ...) / (A[0] + A[1]z^-1 + ...)
//
// with A[0] == 1. Both slices have Order()+1 taps.
type TransferFunction struct {
	B []float64 // numerator
	A []float64 // denominator
}

// NewTransferFunction expands a cascade of sections (with input gain) into
// numerator and denominator polynomials.
func NewTransferFunction(coeffs []Coefficients, gain float64) TransferFunction {
	b := []float64{gain}
	a := []float64{1}

	for _, c := range coeffs {
		if c.FirstOrder() {
			b = polyMul(b, []float64{c.B0, c.B1})
			a = polyMul(a, []float64{1, c.A1})
			continue
		}
		b = polyMul(b, []float64{c.B0, c.B1, c.B2})
		a = polyMul(a, []float64{1, c.A1, c.A2})
	}

	return TransferFunction{B: b, A: a}
}

// Order returns the filter order (number of taps minus one).
func (tf TransferFunction) Order() int {
	n := len(tf.B)
	if len(tf.A) > n {
		n = len(tf.A)
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// Response evaluates H(e^jw) at freqHz for the given sample rate.
func (tf TransferFunction) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	return polyEval(tf.B, w) / polyEval(tf.A, w)
}

// MagnitudeDB returns 20*log10|H(f)|.
func (tf TransferFunction) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(tf.Response(freqHz, sampleRate)))
}

func polyEval(p []float64, w float64) complex128 {
	var sum complex128
	for k, c := range p {
		sum += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return sum
}

func polyMul(p, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)
	for i, x := range p {
		for j, y := range q {
			out[i+j] += x * y
		}
	}
	return out
}
