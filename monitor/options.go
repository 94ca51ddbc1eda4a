package monitor

import (
	"time"

	"go.uber.org/zap"
)

// Recorder receives pipeline measurements. Implementations must be safe
// for concurrent use.
type Recorder interface {
	ObserveIngest(accepted, rejected int)
	ObserveTick(elapsed time.Duration, err error)
	ObserveFrame(f Frame)
	ObserveTransportError()
}

// Sink consumes published frames. Publish must not block for long; it is
// called from the runner loop.
type Sink interface {
	Publish(f Frame)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Frame)

// Publish calls fn(f).
func (fn SinkFunc) Publish(f Frame) { fn(f) }

type nopRecorder struct{}

func (nopRecorder) ObserveIngest(int, int) {}
func (nopRecorder) ObserveTick(time.Duration, error) {}
func (nopRecorder) ObserveFrame(Frame) {}
func (nopRecorder) ObserveTransportError() {}

type options struct {
	logger   *zap.Logger
	recorder Recorder
	sink     Sink
}

// Option configures a Pipeline or Runner.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithSink sets where a Runner publishes frames. Pipelines ignore it.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		sink:     SinkFunc(func(Frame) {}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
