package monitor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-eeg/dsp/buffer"
	"github.com/cwbudde/algo-eeg/dsp/core"
	"github.com/cwbudde/algo-eeg/dsp/spectrum"
	"github.com/cwbudde/algo-eeg/dsp/window"
	freqstats "github.com/cwbudde/algo-eeg/stats/frequency"
	timestats "github.com/cwbudde/algo-eeg/stats/time"
)

// SampleSize is the number of bytes per encoded sample unit.
const SampleSize = 2

// Pipeline turns a stream of raw sample units into spectra.
//
// Ingest and Tick (and Frame) are serialized by an internal mutex, so a
// Pipeline may be driven from several goroutines.
type Pipeline struct {
	cfg      Config
	bank     *FilterBank
	analyzer *spectrum.Analyzer
	timeAxis []float64
	logger   *zap.Logger
	recorder Recorder

	mu         sync.Mutex
	buf        *buffer.Rolling
	pending    byte
	hasPending bool
	decoded    []float64
	raw        []float64
	filtered   []float64
	samples    uint64
	rejected   uint64
	sequence   uint64
}

// New validates cfg, designs the filters and returns a Pipeline with a
// zero-filled buffer. An invalid cfg yields a *ConfigError.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	bank, err := NewFilterBank(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.BufferSize < bank.MinSignalLength() {
		return nil, configErrorf("buffer_size", "%d samples, filters need at least %d", cfg.BufferSize, bank.MinSignalLength())
	}

	analyzer, err := spectrum.NewAnalyzer(cfg.SampleRate, cfg.BufferSize, spectrum.WithWindow(window.TypeHamming))
	if err != nil {
		return nil, &ConfigError{Field: "buffer_size", Reason: "no analyzer", Err: err}
	}

	o := applyOptions(opts)

	timeAxis := make([]float64, cfg.BufferSize)
	for i := range timeAxis {
		timeAxis[i] = float64(i) / cfg.SampleRate
	}

	return &Pipeline{
		cfg:      cfg,
		bank:     bank,
		analyzer: analyzer,
		timeAxis: timeAxis,
		logger:   o.logger,
		recorder: o.recorder,
		buf:      buffer.NewRolling(cfg.BufferSize),
		raw:      make([]float64, cfg.BufferSize),
		filtered: make([]float64, cfg.BufferSize),
	}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// FilterBank returns the designed filters.
func (p *Pipeline) FilterBank() *FilterBank { return p.bank }

// Pending reports whether a trailing byte is waiting for its partner.
func (p *Pipeline) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasPending
}

// Counters returns the number of accepted samples and rejected units so far.
func (p *Pipeline) Counters() (samples, rejected uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samples, p.rejected
}

// Snapshot returns the buffer contents, oldest first.
func (p *Pipeline) Snapshot() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Snapshot()
}

// Ingest decodes raw as consecutive little-endian uint16 units and pushes
// the accepted ones into the buffer in arrival order. A trailing odd byte
// is kept and completed by the first byte of the next call.
//
// Units outside [SampleMin, SampleMax] are skipped. Ingest returns the
// number of samples pushed and, if any unit was skipped, the joined
// *DecodeError values. Offsets are relative to raw; a unit completed from
// a pending byte has offset -1.
func (p *Pipeline) Ingest(raw []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	p.decoded = p.decoded[:0]
	push := func(offset int, v uint16) {
		if v < p.cfg.SampleMin || v > p.cfg.SampleMax {
			err := &DecodeError{Offset: offset, Value: v, Min: p.cfg.SampleMin, Max: p.cfg.SampleMax}
			p.logger.Warn("discarding sample unit", zap.Int("offset", offset), zap.Uint16("value", v))
			errs = append(errs, err)
			return
		}
		p.decoded = append(p.decoded, float64(v))
	}

	i := 0
	if p.hasPending && len(raw) > 0 {
		push(-1, uint16(p.pending)|uint16(raw[0])<<8)
		p.hasPending = false
		i = 1
	}
	for ; i+SampleSize <= len(raw); i += SampleSize {
		push(i, binary.LittleEndian.Uint16(raw[i:]))
	}
	if i < len(raw) {
		p.pending = raw[i]
		p.hasPending = true
	}

	p.buf.PushBlock(p.decoded)
	accepted := len(p.decoded)

	p.samples += uint64(accepted)
	p.rejected += uint64(len(errs))
	p.recorder.ObserveIngest(accepted, len(errs))

	return accepted, errors.Join(errs...)
}

// Tick filters a snapshot of the buffer and returns its spectrum. It never
// modifies the buffer. A failed computation returns an *UnexpectedError
// and leaves the pipeline ready for the next tick.
func (p *Pipeline) Tick() (spectrum.Spectrum, error) {
	start := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.raw = p.buf.SnapshotInto(p.raw)
	p.filtered = core.EnsureLen(p.filtered, len(p.raw))
	spec, err := p.compute(p.raw, p.filtered)
	p.observeTick(start, err)

	return spec, err
}

// Frame is Tick returning the time-domain signals and statistics along
// with the spectrum.
func (p *Pipeline) Frame() (Frame, error) {
	start := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	raw := p.buf.Snapshot()
	filtered := make([]float64, len(raw))
	spec, err := p.compute(raw, filtered)
	if err == nil {
		var st Stats
		st, err = p.summarize(raw, filtered)
		if err == nil {
			p.sequence++
			f := Frame{
				Sequence:   p.sequence,
				Timestamp:  start,
				SampleRate: p.cfg.SampleRate,
				Time:       append([]float64(nil), p.timeAxis...),
				Raw:        raw,
				Filtered:   filtered,
				Spectrum:   spec,
				Stats:      st,
			}
			p.observeTick(start, nil)
			p.recorder.ObserveFrame(f)
			return f, nil
		}
	}

	p.observeTick(start, err)
	return Frame{}, err
}

func (p *Pipeline) observeTick(start time.Time, err error) {
	p.recorder.ObserveTick(time.Since(start), err)
	if err != nil {
		p.logger.Error("skipping tick", zap.Error(err))
	}
}

// compute runs the filter bank and analyzer, converting failures and
// panics into *UnexpectedError.
func (p *Pipeline) compute(raw, filtered []float64) (spec spectrum.Spectrum, err error) {
	defer func() {
		if r := recover(); r != nil {
			spec = spectrum.Spectrum{}
			err = &UnexpectedError{Stage: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	if err := p.bank.ApplyInto(filtered, raw); err != nil {
		return spectrum.Spectrum{}, &UnexpectedError{Stage: "filter", Err: err}
	}
	if i := core.FirstNonFinite(filtered); i >= 0 {
		return spectrum.Spectrum{}, &UnexpectedError{
			Stage: "filter",
			Err:   fmt.Errorf("non-finite output %v at sample %d", filtered[i], i),
		}
	}

	spec, err = p.analyzer.Analyze(filtered)
	if err != nil {
		return spectrum.Spectrum{}, &UnexpectedError{Stage: "analyze", Err: err}
	}
	if i := core.FirstNonFinite(spec.Magnitudes); i >= 0 {
		return spectrum.Spectrum{}, &UnexpectedError{
			Stage: "analyze",
			Err:   fmt.Errorf("non-finite magnitude %v at %g Hz", spec.Magnitudes[i], spec.Frequencies[i]),
		}
	}

	return spec, nil
}

// summarize derives frame statistics. Frequency statistics use the
// spectrum of the mean-removed filtered signal, since window leakage of the
// converter offset would otherwise dominate the lowest bins.
func (p *Pipeline) summarize(raw, filtered []float64) (Stats, error) {
	centered := buffer.Scratch.Get(len(filtered))
	defer buffer.Scratch.Put(centered)
	removeMean(centered.Samples(), filtered)

	rawCentered := buffer.Scratch.Get(len(raw))
	defer buffer.Scratch.Put(rawCentered)
	removeMean(rawCentered.Samples(), raw)

	spec, err := p.analyzer.Analyze(centered.Samples())
	if err != nil {
		return Stats{}, &UnexpectedError{Stage: "stats", Err: err}
	}
	fs, err := freqstats.Calculate(spec.Frequencies, spec.Magnitudes, freqstats.EEGBands())
	if err != nil {
		return Stats{}, &UnexpectedError{Stage: "stats", Err: err}
	}

	st := Stats{
		Time:            timestats.Calculate(filtered),
		Frequency:       fs,
		SamplesIngested: p.samples,
		DecodeErrors:    p.rejected,
	}

	st.MainsRaw, err = spectrum.ToneAmplitude(rawCentered.Samples(), p.cfg.NotchFrequency, p.cfg.SampleRate)
	if err != nil {
		return Stats{}, &UnexpectedError{Stage: "stats", Err: err}
	}
	st.MainsFiltered, err = spectrum.ToneAmplitude(centered.Samples(), p.cfg.NotchFrequency, p.cfg.SampleRate)
	if err != nil {
		return Stats{}, &UnexpectedError{Stage: "stats", Err: err}
	}
	if st.MainsRaw > 0 && st.MainsFiltered > 0 {
		st.MainsRejectionDB = core.LinearToDB(st.MainsFiltered / st.MainsRaw)
	}

	return st, nil
}

// removeMean writes src minus its mean into dst.
func removeMean(dst, src []float64) {
	dc := timestats.DC(src)
	for i, v := range src {
		dst[i] = v - dc
	}
}
