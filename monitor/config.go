package monitor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
	"github.com/cwbudde/algo-eeg/source"
)

// Config is the immutable parameter set of a Pipeline. Field defaults
// follow the classic single-channel setup: 250 Hz sampling, a 4 s buffer,
// 50 Hz mains notch with Q 30 and a fourth-order 50 Hz lowpass.
type Config struct {
	SampleRate     float64       `yaml:"sample_rate" json:"sample_rate" default:"250" validate:"gt=0"`
	BufferSize     int           `yaml:"buffer_size" json:"buffer_size" default:"1000" validate:"gt=0"`
	LowpassCutoff  float64       `yaml:"lowpass_cutoff" json:"lowpass_cutoff" default:"50" validate:"gt=0"`
	NotchFrequency float64       `yaml:"notch_frequency" json:"notch_frequency" default:"50" validate:"gt=0"`
	FilterOrder    int           `yaml:"filter_order" json:"filter_order" default:"4" validate:"gte=1,lte=16"`
	NotchQ         float64       `yaml:"notch_q" json:"notch_q" default:"30" validate:"gt=0"`
	TickInterval   time.Duration `yaml:"tick_interval" json:"tick_interval" default:"50ms" validate:"gt=0"`

	// Valid device range of decoded units, inclusive.
	SampleMin uint16 `yaml:"sample_min" json:"sample_min" default:"0"`
	SampleMax uint16 `yaml:"sample_max" json:"sample_max" default:"65535"`

	// DisplayMaxHz crops spectra served to viewers; 0 disables cropping.
	DisplayMaxHz float64 `yaml:"display_max_hz" json:"display_max_hz" default:"60" validate:"gte=0"`

	Source source.Config `yaml:"source" json:"source"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	var cfg Config
	// Only fails for malformed default tags.
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Nyquist returns half the sample rate.
func (c Config) Nyquist() float64 {
	return c.SampleRate / 2
}

// MinCapacity returns the smallest buffer the zero-phase filters can
// process for a lowpass of the given order. The notch counts as a
// second-order filter.
func MinCapacity(order int) int {
	return biquad.MinZeroPhaseLength(max(order, 2))
}

// Validate checks every parameter and returns a *ConfigError describing the
// first violation.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := fe.Namespace()
			if i := strings.IndexByte(field, '.'); i >= 0 {
				field = field[i+1:]
			}
			return &ConfigError{Field: field, Reason: fieldReason(fe)}
		}
		return &ConfigError{Field: "config", Reason: "validation failed", Err: err}
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"sample_rate", c.SampleRate},
		{"lowpass_cutoff", c.LowpassCutoff},
		{"notch_frequency", c.NotchFrequency},
		{"notch_q", c.NotchQ},
	} {
		if !core.IsFinite(f.value) {
			return configErrorf(f.name, "must be finite, got %v", f.value)
		}
	}

	nyq := c.Nyquist()
	if c.LowpassCutoff >= nyq {
		return configErrorf("lowpass_cutoff", "%g Hz must be below Nyquist %g Hz", c.LowpassCutoff, nyq)
	}
	if c.NotchFrequency >= nyq {
		return configErrorf("notch_frequency", "%g Hz must be below Nyquist %g Hz", c.NotchFrequency, nyq)
	}
	if need := MinCapacity(c.FilterOrder); c.BufferSize < need {
		return configErrorf("buffer_size", "%d samples, filter order %d needs at least %d", c.BufferSize, c.FilterOrder, need)
	}
	if c.SampleMin > c.SampleMax {
		return configErrorf("sample_min", "%d exceeds sample_max %d", c.SampleMin, c.SampleMax)
	}
	if _, _, err := source.ParseTransport(c.Source.Transport); err != nil {
		return &ConfigError{Field: "source.transport", Reason: "unsupported", Err: err}
	}

	return nil
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
