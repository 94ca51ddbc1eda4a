// Package metrics exports pipeline measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/algo-eeg/monitor"
)

// Recorder implements monitor.Recorder using Prometheus.
type Recorder struct {
	samples         prometheus.Counter
	decodeErrors    prometheus.Counter
	transportErrors prometheus.Counter
	ticks           *prometheus.CounterVec
	tickLatency     prometheus.Histogram
	dominant        prometheus.Gauge
	mainsRejection  prometheus.Gauge
	spread          prometheus.Gauge
	bandPower       *prometheus.GaugeVec
}

var _ monitor.Recorder = (*Recorder)(nil)

// New creates a recorder registered with reg, or with the default
// registry when reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		samples: f.NewCounter(prometheus.CounterOpts{
			Name: "eegmon_samples_ingested_total",
			Help: "Total number of samples pushed into the rolling buffer",
		}),
		decodeErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "eegmon_decode_errors_total",
			Help: "Total number of sample units discarded as out of range",
		}),
		transportErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "eegmon_transport_errors_total",
			Help: "Total number of byte source failures",
		}),
		ticks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eegmon_ticks_total",
				Help: "Total number of ticks by result",
			},
			[]string{"result"},
		),
		tickLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "eegmon_tick_duration_seconds",
			Help:    "Duration of filtering and spectrum analysis per tick",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		dominant: f.NewGauge(prometheus.GaugeOpts{
			Name: "eegmon_dominant_frequency_hz",
			Help: "Frequency of the largest spectral bin of the last frame",
		}),
		mainsRejection: f.NewGauge(prometheus.GaugeOpts{
			Name: "eegmon_mains_rejection_db",
			Help: "Mains amplitude after filtering relative to before, in dB",
		}),
		spread: f.NewGauge(prometheus.GaugeOpts{
			Name: "eegmon_filtered_std_dev",
			Help: "Standard deviation of the filtered signal of the last frame, in device units",
		}),
		bandPower: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eegmon_band_power_relative",
				Help: "Fraction of spectral energy per EEG band in the last frame",
			},
			[]string{"band"},
		),
	}
}

// ObserveIngest records accepted and rejected sample units.
func (r *Recorder) ObserveIngest(accepted, rejected int) {
	r.samples.Add(float64(accepted))
	r.decodeErrors.Add(float64(rejected))
}

// ObserveTick records the outcome and duration of a tick.
func (r *Recorder) ObserveTick(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "skipped"
	}
	r.ticks.WithLabelValues(result).Inc()
	r.tickLatency.Observe(elapsed.Seconds())
}

// ObserveFrame records the summary statistics of a frame.
func (r *Recorder) ObserveFrame(f monitor.Frame) {
	r.dominant.Set(f.Stats.Frequency.Dominant)
	r.mainsRejection.Set(f.Stats.MainsRejectionDB)
	r.spread.Set(f.Stats.Time.StdDev)
	for _, b := range f.Stats.Frequency.Bands {
		r.bandPower.WithLabelValues(b.Name).Set(b.Relative)
	}
}

// ObserveTransportError records a byte source failure.
func (r *Recorder) ObserveTransportError() {
	r.transportErrors.Inc()
}
