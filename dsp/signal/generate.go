package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-eeg/dsp/core"
)

// Tone is one sinusoidal component of a generated signal.
type Tone struct {
	Frequency float64 // Hz
	Amplitude float64 // peak
	Phase     float64 // radians at sample 0
}

// Generator creates deterministic signals from a shared configuration.
//
// Besides one-shot helpers, a Generator is a continuous source: Next keeps
// a sample position and a seeded noise stream, so consecutive calls produce
// one uninterrupted signal made of the configured tones, a DC offset and
// uniform white noise.
type Generator struct {
	cfg    core.ProcessorConfig
	seed   int64
	tones  []Tone
	noise  float64
	offset float64

	rng *rand.Rand
	pos int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithTone adds a sinusoidal component to the continuous signal.
func WithTone(freqHz, amplitude float64) Option {
	return func(g *Generator) {
		g.tones = append(g.tones, Tone{Frequency: freqHz, Amplitude: amplitude})
	}
}

// WithNoise sets the peak amplitude of the uniform noise floor.
func WithNoise(amplitude float64) Option {
	return func(g *Generator) {
		g.noise = math.Abs(amplitude)
	}
}

// WithOffset sets a constant offset added to every sample.
func WithOffset(offset float64) Option {
	return func(g *Generator) {
		g.offset = offset
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Tones returns a copy of the configured components.
func (g *Generator) Tones() []Tone {
	return append([]Tone(nil), g.tones...)
}

// Position returns the index of the next sample Next will produce.
func (g *Generator) Position() int64 {
	return g.pos
}

// Next fills dst with the following len(dst) samples of the continuous
// signal.
func (g *Generator) Next(dst []float64) {
	sr := g.cfg.SampleRate
	for i := range dst {
		t := float64(g.pos) / sr
		v := g.offset
		for _, tone := range g.tones {
			v += tone.Amplitude * math.Sin(2*math.Pi*tone.Frequency*t+tone.Phase)
		}
		if g.noise > 0 {
			v += (g.rng.Float64()*2 - 1) * g.noise
		}
		dst[i] = v
		g.pos++
	}
}

// Reset rewinds the continuous signal to sample 0 and reseeds the noise.
func (g *Generator) Reset() {
	g.pos = 0
	g.rng = rand.New(rand.NewSource(g.seed))
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
// It is independent of the continuous stream used by Next.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}
