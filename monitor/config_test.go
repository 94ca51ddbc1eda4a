package monitor

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SampleRate != 250 || cfg.BufferSize != 1000 {
		t.Fatalf("rate/buffer = %v/%d, want 250/1000", cfg.SampleRate, cfg.BufferSize)
	}
	if cfg.LowpassCutoff != 50 || cfg.NotchFrequency != 50 || cfg.NotchQ != 30 || cfg.FilterOrder != 4 {
		t.Fatalf("filter defaults = %+v", cfg)
	}
	if cfg.TickInterval != 50*time.Millisecond {
		t.Fatalf("TickInterval = %v, want 50ms", cfg.TickInterval)
	}
	if cfg.SampleMin != 0 || cfg.SampleMax != 65535 {
		t.Fatalf("sample range = [%d, %d]", cfg.SampleMin, cfg.SampleMax)
	}
	if cfg.DisplayMaxHz != 60 {
		t.Fatalf("DisplayMaxHz = %v, want 60", cfg.DisplayMaxHz)
	}
	if cfg.Source.Transport != "synthetic" || cfg.Source.BaudRate != 115200 {
		t.Fatalf("source = %+v", cfg.Source)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"notch at nyquist", func(c *Config) { c.NotchFrequency = 125 }, "notch_frequency"},
		{"notch above nyquist", func(c *Config) { c.NotchFrequency = 130 }, "notch_frequency"},
		{"lowpass at nyquist", func(c *Config) { c.LowpassCutoff = 125 }, "lowpass_cutoff"},
		{"lowpass infinite", func(c *Config) { c.LowpassCutoff = math.Inf(1) }, "lowpass_cutoff"},
		{"buffer below order 2 floor", func(c *Config) { c.FilterOrder = 2; c.BufferSize = 9 }, "buffer_size"},
		{"buffer below order 4 floor", func(c *Config) { c.BufferSize = 15 }, "buffer_size"},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, "sample_rate"},
		{"zero filter order", func(c *Config) { c.FilterOrder = 0 }, "filter_order"},
		{"negative q", func(c *Config) { c.NotchQ = -1 }, "notch_q"},
		{"zero tick interval", func(c *Config) { c.TickInterval = 0 }, "tick_interval"},
		{"inverted sample range", func(c *Config) { c.SampleMin = 10; c.SampleMax = 5 }, "sample_min"},
		{"empty transport", func(c *Config) { c.Source.Transport = "" }, "source.transport"},
		{"bad tcp transport", func(c *Config) { c.Source.Transport = "tcp:nohost" }, "source.transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Validate() = %v, want configuration error", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Fatalf("Field = %q, want %q (%v)", ce.Field, tt.field, err)
			}
		})
	}
}

func TestConfigValidateAcceptsMinimumBuffer(t *testing.T) {
	for _, order := range []int{1, 2, 3, 4, 8} {
		cfg := DefaultConfig()
		cfg.FilterOrder = order
		cfg.BufferSize = MinCapacity(order)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("order %d, buffer %d: %v", order, cfg.BufferSize, err)
		}
	}
}

func TestMinCapacity(t *testing.T) {
	tests := []struct {
		order int
		want  int
	}{
		{1, 10},
		{2, 10},
		{3, 13},
		{4, 16},
		{5, 19},
	}
	for _, tt := range tests {
		if got := MinCapacity(tt.order); got != tt.want {
			t.Errorf("MinCapacity(%d) = %d, want %d", tt.order, got, tt.want)
		}
	}
}

func TestMinCapacityMatchesFilterBank(t *testing.T) {
	for order := 1; order <= 8; order++ {
		cfg := DefaultConfig()
		cfg.FilterOrder = order
		fb, err := NewFilterBank(cfg)
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		if got, want := fb.MinSignalLength(), MinCapacity(order); got != want {
			t.Errorf("order %d: MinSignalLength = %d, MinCapacity = %d", order, got, want)
		}
	}
}

func TestNewRejectsNotchAtNyquist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NotchFrequency = cfg.SampleRate / 2

	p, err := New(cfg)
	if p != nil {
		t.Fatal("New returned a pipeline for an invalid configuration")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "notch_frequency" {
		t.Fatalf("New() error = %v, want notch_frequency ConfigError", err)
	}
	if errors.Is(err, ErrDecode) || errors.Is(err, ErrTransport) || errors.Is(err, ErrUnexpected) {
		t.Fatalf("configuration error matches another class: %v", err)
	}
}
