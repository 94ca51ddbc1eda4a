package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-eeg/source"
)

// Runner drives a Pipeline from a byte source on a fixed interval. On each
// step it ingests every byte currently available, computes a Frame and
// publishes it to the Sink.
//
// A Runner is driven by one goroutine: call Run, or call Step yourself.
type Runner struct {
	p        *Pipeline
	src      source.Source
	interval time.Duration
	logger   *zap.Logger
	recorder Recorder
	sink     Sink

	closeOnce sync.Once
	failed    error
}

// NewRunner creates a Runner. The runner owns src from now on and closes
// it when it stops.
func NewRunner(p *Pipeline, src source.Source, interval time.Duration, opts ...Option) (*Runner, error) {
	if p == nil {
		return nil, errors.New("monitor: nil pipeline")
	}
	if src == nil {
		return nil, errors.New("monitor: nil source")
	}
	if interval <= 0 {
		return nil, configErrorf("tick_interval", "must be positive, got %s", interval)
	}

	o := applyOptions(opts)
	return &Runner{
		p:        p,
		src:      src,
		interval: interval,
		logger:   o.logger,
		recorder: o.recorder,
		sink:     o.sink,
	}, nil
}

// Run steps the pipeline every interval until ctx is done or the source
// fails. It returns nil on cancellation and a *TransportError when the
// source fails; skipped ticks do not stop it. The source is closed in both
// cases.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("runner started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.release()
			r.logger.Info("runner stopped")
			return nil
		case <-ticker.C:
			if err := r.Step(); errors.Is(err, ErrTransport) {
				return err
			}
		}
	}
}

// Step performs one ingest and tick. It returns a *TransportError when the
// source failed (and keeps returning it), or an *UnexpectedError when the
// tick was skipped.
func (r *Runner) Step() error {
	if r.failed != nil {
		return r.failed
	}

	if err := r.pull(); err != nil {
		r.failed = err
		r.release()
		r.recorder.ObserveTransportError()
		r.logger.Error("byte source failed, stopped pulling", zap.Error(err))
		return err
	}

	f, err := r.p.Frame()
	if err != nil {
		return err
	}
	r.sink.Publish(f)
	return nil
}

func (r *Runner) pull() error {
	n, err := r.src.Available()
	if err != nil {
		return &TransportError{Op: "available", Err: err}
	}
	if n == 0 {
		return nil
	}

	raw, err := r.src.ReadFull(n)
	if err != nil {
		return &TransportError{Op: "read", Err: err}
	}

	// Decode errors are logged and counted by the pipeline.
	_, _ = r.p.Ingest(raw)
	return nil
}

func (r *Runner) release() {
	r.closeOnce.Do(func() {
		if err := r.src.Close(); err != nil {
			r.logger.Warn("closing byte source", zap.Error(err))
		}
	})
}
