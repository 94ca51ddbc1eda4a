// Package frequency computes summary statistics of one-sided magnitude
// spectra given as paired frequency and magnitude slices.
package frequency

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Band is a named frequency range [Low, High) in Hz.
type Band struct {
	Name string  `json:"name" yaml:"name"`
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether f lies in [Low, High).
func (b Band) Contains(f float64) bool {
	return f >= b.Low && f < b.High
}

// EEGBands returns the classic clinical EEG rhythm bands.
func EEGBands() []Band {
	return []Band{
		{Name: "delta", Low: 0.5, High: 4},
		{Name: "theta", Low: 4, High: 8},
		{Name: "alpha", Low: 8, High: 13},
		{Name: "beta", Low: 13, High: 30},
		{Name: "gamma", Low: 30, High: 45},
	}
}

// BandPower is the spectral energy found in one band.
type BandPower struct {
	Band
	Power    float64 `json:"power"`    // sum of squared magnitudes
	Relative float64 `json:"relative"` // Power / total spectral energy, 0..1
}

// Stats holds frequency-domain statistics of a magnitude spectrum.
type Stats struct {
	Bins              int         `json:"bins"`
	Dominant          float64     `json:"dominant_hz"` // frequency of the largest bin
	DominantMagnitude float64     `json:"dominant_magnitude"`
	Centroid          float64     `json:"centroid_hz"` // magnitude-weighted mean frequency
	Spread            float64     `json:"spread_hz"`   // magnitude-weighted std around the centroid
	Flatness          float64     `json:"flatness"`    // Wiener entropy, 0..1
	Rolloff           float64     `json:"rolloff_hz"`  // frequency below which 85% of energy lies
	Energy            float64     `json:"energy"`      // sum of squared magnitudes
	Bands             []BandPower `json:"bands,omitempty"`
}

// RolloffFraction is the energy fraction used for Stats.Rolloff.
const RolloffFraction = 0.85

var errNonAscending = errors.New("frequency: frequencies must be strictly ascending")

func validate(freqs, mags []float64) error {
	if len(freqs) != len(mags) {
		return fmt.Errorf("frequency: length mismatch: %d frequencies, %d magnitudes", len(freqs), len(mags))
	}
	for i := 1; i < len(freqs); i++ {
		if !(freqs[i] > freqs[i-1]) {
			return errNonAscending
		}
	}
	return nil
}

// Calculate computes all statistics of the spectrum (freqs, mags) and the
// energy in each of bands. Magnitudes are linear, not dB. An empty
// spectrum yields zero statistics with zero band powers.
func Calculate(freqs, mags []float64, bands []Band) (Stats, error) {
	if err := validate(freqs, mags); err != nil {
		return Stats{}, err
	}

	s := Stats{Bins: len(mags)}
	if len(bands) > 0 {
		s.Bands = make([]BandPower, len(bands))
		for i, b := range bands {
			s.Bands[i].Band = b
		}
	}
	if len(mags) == 0 {
		return s, nil
	}

	peak := floats.MaxIdx(mags)
	s.Dominant = freqs[peak]
	s.DominantMagnitude = mags[peak]
	s.Energy = floats.Dot(mags, mags)

	sum := floats.Sum(mags)
	if sum > 0 {
		s.Centroid = floats.Dot(freqs, mags) / sum
		var sq float64
		for i, m := range mags {
			d := freqs[i] - s.Centroid
			sq += d * d * m
		}
		s.Spread = math.Sqrt(sq / sum)
	}
	s.Flatness = flatness(mags)
	s.Rolloff = rolloff(freqs, mags, RolloffFraction, s.Energy)

	for i := range s.Bands {
		s.Bands[i].Power = bandEnergy(freqs, mags, s.Bands[i].Band)
		if s.Energy > 0 {
			s.Bands[i].Relative = s.Bands[i].Power / s.Energy
		}
	}

	return s, nil
}

// Dominant returns the frequency and magnitude of the largest bin. It
// returns zeros for an empty spectrum.
func Dominant(freqs, mags []float64) (float64, float64) {
	if len(mags) == 0 || len(freqs) != len(mags) {
		return 0, 0
	}
	i := floats.MaxIdx(mags)
	return freqs[i], mags[i]
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(freqs, mags []float64) float64 {
	if len(mags) == 0 || len(freqs) != len(mags) {
		return 0
	}
	sum := floats.Sum(mags)
	if sum == 0 {
		return 0
	}
	return floats.Dot(freqs, mags) / sum
}

// BandEnergy returns the sum of squared magnitudes of bins inside band.
func BandEnergy(freqs, mags []float64, band Band) float64 {
	if len(freqs) != len(mags) {
		return 0
	}
	return bandEnergy(freqs, mags, band)
}

func bandEnergy(freqs, mags []float64, band Band) float64 {
	var e float64
	for i, f := range freqs {
		if band.Contains(f) {
			e += mags[i] * mags[i]
		}
	}
	return e
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1:
//
//	exp(mean(log|X_i|)) / mean(|X_i|)
//
// If any bin is zero the geometric mean, and thus the flatness, is zero.
func Flatness(mags []float64) float64 {
	return flatness(mags)
}

func flatness(mags []float64) float64 {
	if len(mags) == 0 {
		return 0
	}
	meanLin := floats.Sum(mags) / float64(len(mags))
	if meanLin == 0 {
		return 0
	}

	var sumLog float64
	for _, v := range mags {
		if v <= 0 {
			return 0
		}
		sumLog += math.Log(v)
	}

	return math.Exp(sumLog/float64(len(mags))) / meanLin
}

// Rolloff returns the frequency below which the given fraction (0..1) of
// spectral energy lies.
func Rolloff(freqs, mags []float64, fraction float64) float64 {
	if len(mags) == 0 || len(freqs) != len(mags) {
		return 0
	}
	return rolloff(freqs, mags, fraction, floats.Dot(mags, mags))
}

func rolloff(freqs, mags []float64, fraction, total float64) float64 {
	if total == 0 {
		return 0
	}
	threshold := fraction * total
	var cum float64
	for i, v := range mags {
		cum += v * v
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}
