// Package time computes time-domain summary statistics of signal snapshots.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int     `json:"length"`
	DC            float64 `json:"dc"` // mean
	RMS           float64 `json:"rms"`
	StdDev        float64 `json:"std_dev"` // population
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Peak          float64 `json:"peak"`           // max(|max|, |min|)
	PeakToPeak    float64 `json:"peak_to_peak"`   // max - min
	CrestFactor   float64 `json:"crest_factor"`   // peak / RMS (linear)
	ZeroCrossings int     `json:"zero_crossings"` // sign changes about the mean
}

// Calculate computes all time-domain statistics of signal. An empty signal
// yields the zero value.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	maxVal := floats.Max(signal)
	minVal := floats.Min(signal)
	mean, std := stat.PopMeanStdDev(signal, nil)
	rms := RMS(signal)
	peak := math.Max(math.Abs(maxVal), math.Abs(minVal))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:        n,
		DC:            mean,
		RMS:           rms,
		StdDev:        std,
		Max:           maxVal,
		Min:           minVal,
		Peak:          peak,
		PeakToPeak:    maxVal - minVal,
		CrestFactor:   crest,
		ZeroCrossings: crossings(signal, mean),
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// DC returns the mean (DC offset) of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return stat.Mean(signal, nil)
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Max(math.Abs(floats.Max(signal)), math.Abs(floats.Min(signal)))
}

// ZeroCrossings returns the number of zero crossings in the signal.
// A crossing is counted when consecutive samples have opposite signs.
func ZeroCrossings(signal []float64) int {
	return crossings(signal, 0)
}

func crossings(signal []float64, level float64) int {
	var count int
	for i := 1; i < len(signal); i++ {
		if (signal[i-1]-level)*(signal[i]-level) < 0 {
			count++
		}
	}
	return count
}
