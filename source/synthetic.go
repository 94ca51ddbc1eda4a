package source

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/dsp/signal"
)

// SyntheticConfig parameterizes the synthetic EEG source. Amplitudes are
// in device units around Offset.
type SyntheticConfig struct {
	SampleRate     float64
	Offset         float64 // mid-scale of the converter
	AlphaHz        float64
	AlphaAmplitude float64
	MainsHz        float64
	MainsAmplitude float64
	NoiseAmplitude float64
	Seed           int64
	// MaxBacklog bounds how many seconds of samples one Available call
	// may generate after a stall.
	MaxBacklog time.Duration
}

// DefaultSyntheticConfig returns a resting-state signal: a 10 Hz alpha
// rhythm with 50 Hz mains hum and broadband noise, centered in the
// 16-bit range.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		SampleRate:     core.DefaultSampleRate,
		Offset:         32768,
		AlphaHz:        10,
		AlphaAmplitude: 400,
		MainsHz:        50,
		MainsAmplitude: 250,
		NoiseAmplitude: 60,
		Seed:           1,
		MaxBacklog:     2 * time.Second,
	}
}

// SyntheticOption configures a Synthetic source.
type SyntheticOption func(*Synthetic)

// WithClock replaces the wall clock, which lets tests control how many
// samples become available.
func WithClock(now func() time.Time) SyntheticOption {
	return func(s *Synthetic) {
		if now != nil {
			s.now = now
		}
	}
}

// Synthetic produces samples in real time: the number of bytes available
// grows with elapsed wall-clock time at the configured sample rate.
type Synthetic struct {
	cfg SyntheticConfig
	gen *signal.Generator
	now func() time.Time

	mu      sync.Mutex
	start   time.Time
	emitted int64
	pending []byte
	scratch []float64
	closed  bool
}

// NewSynthetic creates a synthetic source. The clock starts on the first
// call to Available.
func NewSynthetic(cfg SyntheticConfig, opts ...SyntheticOption) (*Synthetic, error) {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("source: synthetic sample rate must be positive: %v", cfg.SampleRate)
	}
	if cfg.MaxBacklog <= 0 {
		cfg.MaxBacklog = DefaultSyntheticConfig().MaxBacklog
	}

	s := &Synthetic{
		cfg: cfg,
		gen: signal.NewGeneratorWithOptions(
			[]core.ProcessorOption{core.WithSampleRate(cfg.SampleRate)},
			signal.WithSeed(cfg.Seed),
			signal.WithOffset(cfg.Offset),
			signal.WithTone(cfg.AlphaHz, cfg.AlphaAmplitude),
			signal.WithTone(cfg.MainsHz, cfg.MainsAmplitude),
			signal.WithNoise(cfg.NoiseAmplitude),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Config returns the generator configuration.
func (s *Synthetic) Config() SyntheticConfig {
	return s.cfg
}

// Available generates every sample due since the last call and returns the
// number of buffered bytes.
func (s *Synthetic) Available() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	now := s.now()
	if s.start.IsZero() {
		s.start = now
		return len(s.pending), nil
	}

	due := int64(now.Sub(s.start).Seconds()*s.cfg.SampleRate) - s.emitted
	if limit := int64(s.cfg.MaxBacklog.Seconds() * s.cfg.SampleRate); due > limit {
		// Skip samples lost during a stall instead of bursting them.
		s.emitted += due - limit
		due = limit
	}
	if due > 0 {
		s.generate(int(due))
	}
	return len(s.pending), nil
}

func (s *Synthetic) generate(n int) {
	if cap(s.scratch) < n {
		s.scratch = make([]float64, n)
	}
	x := s.scratch[:n]
	s.gen.Next(x)

	for _, v := range x {
		s.pending = binary.LittleEndian.AppendUint16(s.pending, quantize(v))
	}
	s.emitted += int64(n)
}

func quantize(v float64) uint16 {
	if math.IsNaN(v) {
		return 0
	}
	return uint16(core.Clamp(math.Round(v), 0, math.MaxUint16))
}

// ReadFull removes and returns the next n buffered bytes.
func (s *Synthetic) ReadFull(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if n < 0 || n > len(s.pending) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrShortRead, n, len(s.pending))
	}

	out := make([]byte, n)
	copy(out, s.pending)
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
	return out, nil
}

// Close stops the source.
func (s *Synthetic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = nil
	return nil
}
