// Package biquad provides second-order-section (biquad) IIR filter runtime
// primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain] for higher-order filters, and [TransferFunction] expands a cascade
// into its numerator/denominator polynomials.
//
// [FiltFilt] runs a cascade forward and then backward over a whole signal so
// that the net phase response is zero and output samples stay aligned with
// input samples. It keeps no state between calls.
//
// Coefficient design (Butterworth, notch, RBJ shapes) lives in dsp/filter/design.
package biquad
