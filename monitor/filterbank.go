package monitor

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
	"github.com/cwbudde/algo-eeg/dsp/filter/design"
	"github.com/cwbudde/algo-eeg/dsp/filter/design/pass"
)

// FilterBank holds the notch and lowpass cascades derived from a Config.
// Zero-phase filtering never touches the chains' streaming state, so one
// FilterBank may be shared between goroutines.
type FilterBank struct {
	sampleRate float64
	notch      *biquad.Chain
	lowpass    *biquad.Chain
	minLen     int
}

// NewFilterBank designs the filters for cfg. It validates cfg first and
// returns a *ConfigError when it is unusable.
func NewFilterBank(cfg Config) (*FilterBank, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	coeffs := design.NotchBandwidth(cfg.NotchFrequency, cfg.NotchQ, cfg.SampleRate)
	notch := biquad.NewChain([]biquad.Coefficients{coeffs})
	if coeffs == (biquad.Coefficients{}) || !notch.Stable() {
		return nil, configErrorf("notch_frequency", "no stable notch at %g Hz with Q %g", cfg.NotchFrequency, cfg.NotchQ)
	}

	lowpass := biquad.NewChain(pass.ButterworthLP(cfg.LowpassCutoff, cfg.FilterOrder, cfg.SampleRate))
	if lowpass.NumSections() == 0 || !lowpass.Stable() {
		return nil, configErrorf("lowpass_cutoff", "no stable order-%d lowpass at %g Hz", cfg.FilterOrder, cfg.LowpassCutoff)
	}

	return &FilterBank{
		sampleRate: cfg.SampleRate,
		notch:      notch,
		lowpass:    lowpass,
		minLen: max(
			biquad.MinZeroPhaseLength(notch.Order()),
			biquad.MinZeroPhaseLength(lowpass.Order()),
		),
	}, nil
}

// MinSignalLength returns the shortest signal Apply accepts.
func (fb *FilterBank) MinSignalLength() int { return fb.minLen }

// SampleRate returns the design sample rate.
func (fb *FilterBank) SampleRate() float64 { return fb.sampleRate }

// Notch returns the notch transfer function.
func (fb *FilterBank) Notch() biquad.TransferFunction {
	return biquad.NewTransferFunction(fb.notch.Coefficients(), fb.notch.Gain())
}

// Lowpass returns the lowpass transfer function.
func (fb *FilterBank) Lowpass() biquad.TransferFunction {
	return biquad.NewTransferFunction(fb.lowpass.Coefficients(), fb.lowpass.Gain())
}

// NotchSections returns a copy of the notch second-order sections.
func (fb *FilterBank) NotchSections() []biquad.Coefficients { return fb.notch.Coefficients() }

// LowpassSections returns a copy of the lowpass sections.
func (fb *FilterBank) LowpassSections() []biquad.Coefficients { return fb.lowpass.Coefficients() }

// Apply returns the zero-phase filtered copy of signal: notch first, then
// lowpass. The output has the same length as signal and is time-aligned
// with it.
func (fb *FilterBank) Apply(signal []float64) ([]float64, error) {
	out := make([]float64, len(signal))
	if err := fb.ApplyInto(out, signal); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyInto is Apply writing into dst, which must have the length of src.
// dst and src may alias.
func (fb *FilterBank) ApplyInto(dst, src []float64) error {
	if len(src) < fb.minLen {
		return fmt.Errorf("%w: %d samples, need at least %d", biquad.ErrSignalTooShort, len(src), fb.minLen)
	}
	if err := fb.notch.ProcessZeroPhase(dst, src); err != nil {
		return fmt.Errorf("notch: %w", err)
	}
	if err := fb.lowpass.ProcessZeroPhase(dst, dst); err != nil {
		return fmt.Errorf("lowpass: %w", err)
	}
	return nil
}

// ResponseDB returns the magnitude response of Apply at freqHz in dB.
// Forward-backward filtering squares the magnitude of each cascade.
func (fb *FilterBank) ResponseDB(freqHz float64) float64 {
	return fb.notch.ZeroPhaseMagnitudeDB(freqHz, fb.sampleRate) +
		fb.lowpass.ZeroPhaseMagnitudeDB(freqHz, fb.sampleRate)
}
