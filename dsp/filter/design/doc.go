// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad. Lowpass is the RBJ cookbook form. NotchBandwidth is the
// notch whose quality factor is defined as center frequency over -3 dB
// bandwidth, which is the form used to remove mains interference from
// bio-potential recordings.
//
// The sub-package design/pass builds higher-order Butterworth cascades from
// these sections.
package design
