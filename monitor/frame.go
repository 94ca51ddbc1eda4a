package monitor

import (
	"time"

	"github.com/cwbudde/algo-eeg/dsp/spectrum"
	freqstats "github.com/cwbudde/algo-eeg/stats/frequency"
	timestats "github.com/cwbudde/algo-eeg/stats/time"
)

// Frame is the full result of one tick: the time-domain view next to the
// spectrum, plus summary statistics. All slices are owned by the Frame.
type Frame struct {
	Sequence   uint64            `json:"sequence"`
	Timestamp  time.Time         `json:"timestamp"`
	SampleRate float64           `json:"sample_rate"`
	Time       []float64         `json:"time"` // seconds, index / sample rate
	Raw        []float64         `json:"raw"`
	Filtered   []float64         `json:"filtered"`
	Spectrum   spectrum.Spectrum `json:"spectrum"`
	Stats      Stats             `json:"stats"`
}

// Stats summarizes one frame.
type Stats struct {
	Time      timestats.Stats `json:"time"` // of the filtered signal
	Frequency freqstats.Stats `json:"frequency"`

	// Amplitude of the mains component before and after filtering, and
	// the resulting rejection in dB (negative means attenuation).
	MainsRaw         float64 `json:"mains_raw"`
	MainsFiltered    float64 `json:"mains_filtered"`
	MainsRejectionDB float64 `json:"mains_rejection_db"`

	SamplesIngested uint64 `json:"samples_ingested"`
	DecodeErrors    uint64 `json:"decode_errors"`
}

// Cropped returns a copy of f whose spectrum ends at maxHz.
func (f Frame) Cropped(maxHz float64) Frame {
	f.Spectrum = f.Spectrum.Crop(maxHz)
	return f
}
