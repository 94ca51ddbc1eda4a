package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/dsp/window"
)

// Option configures an [Analyzer].
type Option func(*analyzerConfig)

type analyzerConfig struct {
	window window.Type
}

// WithWindow selects the analysis window. The default is Hamming.
func WithWindow(t window.Type) Option {
	return func(cfg *analyzerConfig) {
		cfg.window = t
	}
}

// Analyzer turns signals of a fixed length N into one-sided magnitude
// spectra. Each call to Analyze
//
//  1. multiplies the signal by a symmetric window of length N,
//  2. computes the real-input DFT (N/2+1 bins),
//  3. takes the magnitude of every bin except bin 0 (DC).
//
// Bin k lies at k*sampleRate/N, so the result has N/2 bins for even N and
// (N-1)/2 bins for odd N. Magnitudes are unnormalized |X[k]|.
//
// Window, transform plan and frequency axis are computed once at
// construction. Analyze reuses internal scratch space and must not be
// called concurrently on the same Analyzer.
type Analyzer struct {
	sampleRate float64
	n          int
	windowType window.Type

	window      []float64
	frequencies []float64

	fft      *fourier.FFT
	windowed []float64
	coeffs   []complex128
	re, im   []float64
}

// NewAnalyzer creates an analyzer for signals of length n sampled at
// sampleRate Hz.
func NewAnalyzer(sampleRate float64, n int, opts ...Option) (*Analyzer, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be positive and finite: %v", sampleRate)
	}
	if n < 1 {
		return nil, fmt.Errorf("spectrum: signal length must be >= 1: %d", n)
	}

	cfg := analyzerConfig{window: window.TypeHamming}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	bins := n / 2
	a := &Analyzer{
		sampleRate:  sampleRate,
		n:           n,
		windowType:  cfg.window,
		window:      window.Generate(cfg.window, n),
		frequencies: make([]float64, bins),
		windowed:    core.EnsureLen(nil, n),
		re:          core.EnsureLen(nil, bins),
		im:          core.EnsureLen(nil, bins),
	}
	for k := range a.frequencies {
		a.frequencies[k] = float64(k+1) * sampleRate / float64(n)
	}
	if n > 1 {
		a.fft = fourier.NewFFT(n)
		a.coeffs = core.EnsureComplexLen(nil, n/2+1)
	}

	return a, nil
}

// Len returns the signal length the analyzer was built for.
func (a *Analyzer) Len() int { return a.n }

// Bins returns the number of bins every spectrum has.
func (a *Analyzer) Bins() int { return len(a.frequencies) }

// SampleRate returns the sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// Resolution returns the bin spacing in Hz.
func (a *Analyzer) Resolution() float64 { return a.sampleRate / float64(a.n) }

// Window returns the analysis window type.
func (a *Analyzer) Window() window.Type { return a.windowType }

// Analyze returns the spectrum of signal, which must have length Len().
// The returned slices are freshly allocated and owned by the caller.
func (a *Analyzer) Analyze(signal []float64) (Spectrum, error) {
	if len(signal) != a.n {
		return Spectrum{}, fmt.Errorf("spectrum: signal length %d, analyzer built for %d", len(signal), a.n)
	}

	out := Spectrum{
		Frequencies: append([]float64(nil), a.frequencies...),
		Magnitudes:  make([]float64, len(a.frequencies)),
	}
	if a.fft == nil {
		return out, nil
	}

	windowed, err := window.ApplyCoefficients(a.windowed, signal, a.window)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: %w", err)
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, windowed)
	for k := range a.re {
		c := a.coeffs[k+1]
		a.re[k] = real(c)
		a.im[k] = imag(c)
	}
	MagnitudeFromParts(out.Magnitudes, a.re, a.im)

	return out, nil
}
