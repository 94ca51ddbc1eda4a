// Package spectrum converts time-domain signal snapshots into one-sided
// magnitude spectra.
//
// [Analyzer] windows a fixed-length signal, runs a real-input FFT and drops
// the DC bin. The Goertzel helpers evaluate single frequencies, which is
// cheaper than a full transform when only one component (such as mains
// interference) is of interest.
package spectrum
