package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-eeg/dsp/spectrum"
	"github.com/cwbudde/algo-eeg/internal/metrics"
	"github.com/cwbudde/algo-eeg/internal/testutil"
	"github.com/cwbudde/algo-eeg/monitor"
)

func testConfig() Config {
	return Config{
		Listen:          "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
		PingInterval:    time.Second,
		Metrics:         true,
	}
}

func newTestServer(t *testing.T) (*Hub, *monitor.Pipeline, *httptest.Server) {
	t.Helper()

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	p, err := monitor.New(monitor.DefaultConfig(), monitor.WithRecorder(rec))
	if err != nil {
		t.Fatalf("monitor.New: %v", err)
	}

	hub := NewHub(60, nil)
	srv := httptest.NewServer(New(hub, testConfig(), WithGatherer(reg)).Handler())
	t.Cleanup(srv.Close)
	return hub, p, srv
}

func publishFrame(t *testing.T, p *monitor.Pipeline, hub *Hub) {
	t.Helper()
	x := testutil.DeterministicSine(10, 250, 400, 1000)
	if _, err := p.Ingest(testutil.EncodeU16LE(testutil.QuantizeU16(x, 32768)...)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	f, err := p.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	hub.Publish(f)
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	hub, p, srv := newTestServer(t)

	code, body := get(t, srv.URL+"/healthz")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil || h.Status != "ok" || h.Frames != 0 {
		t.Fatalf("health = %+v, %v", h, err)
	}

	publishFrame(t, p, hub)
	_, body = get(t, srv.URL+"/healthz")
	if err := json.Unmarshal(body, &h); err != nil || h.Frames != 1 {
		t.Fatalf("health after frame = %+v, %v", h, err)
	}
}

func TestSpectrumEndpoint(t *testing.T) {
	hub, p, srv := newTestServer(t)

	if code, _ := get(t, srv.URL+"/spectrum"); code != http.StatusServiceUnavailable {
		t.Fatalf("status before first frame = %d, want 503", code)
	}

	publishFrame(t, p, hub)

	tests := []struct {
		query   string
		maxFreq float64
	}{
		{"", 60},
		{"?max_hz=30", 30},
		{"?max_hz=0", 125},
	}
	for _, tt := range tests {
		code, body := get(t, srv.URL+"/spectrum"+tt.query)
		if code != http.StatusOK {
			t.Fatalf("%q: status = %d", tt.query, code)
		}
		var s spectrum.Spectrum
		if err := json.Unmarshal(body, &s); err != nil {
			t.Fatalf("%q: %v", tt.query, err)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("%q: %v", tt.query, err)
		}
		if last := s.Frequencies[s.Len()-1]; last > tt.maxFreq || last < tt.maxFreq-1 {
			t.Fatalf("%q: last bin %v Hz, want ~%v", tt.query, last, tt.maxFreq)
		}
	}

	if code, _ := get(t, srv.URL+"/spectrum?max_hz=abc"); code != http.StatusBadRequest {
		t.Fatalf("bad max_hz status = %d, want 400", code)
	}
	if code, _ := get(t, srv.URL+"/spectrum?max_hz=-1"); code != http.StatusBadRequest {
		t.Fatalf("negative max_hz status = %d, want 400", code)
	}
}

func TestFrameEndpoint(t *testing.T) {
	hub, p, srv := newTestServer(t)
	publishFrame(t, p, hub)

	code, body := get(t, srv.URL+"/frame")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var f monitor.Frame
	if err := json.Unmarshal(body, &f); err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if f.Sequence != 1 || len(f.Raw) != 1000 || len(f.Filtered) != 1000 || len(f.Time) != 1000 {
		t.Fatalf("frame seq=%d raw=%d filtered=%d time=%d", f.Sequence, len(f.Raw), len(f.Filtered), len(f.Time))
	}
	if f.Stats.Frequency.Dominant != 10 {
		t.Fatalf("dominant = %v, want 10", f.Stats.Frequency.Dominant)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	hub, p, srv := newTestServer(t)
	publishFrame(t, p, hub)

	code, body := get(t, srv.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		"eegmon_samples_ingested_total 1000",
		`eegmon_ticks_total{result="ok"} 1`,
		"eegmon_dominant_frequency_hz 10",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output lacks %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics = false
	srv := httptest.NewServer(New(NewHub(60, nil), cfg).Handler())
	defer srv.Close()

	if code, _ := get(t, srv.URL+"/metrics"); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestStream(t *testing.T) {
	hub, p, srv := newTestServer(t)
	publishFrame(t, p, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() monitor.Frame {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var f monitor.Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return f
	}

	if f := read(); f.Sequence != 1 {
		t.Fatalf("first streamed sequence = %d, want 1", f.Sequence)
	}

	publishFrame(t, p, hub)
	f := read()
	if f.Sequence != 2 {
		t.Fatalf("second streamed sequence = %d, want 2", f.Sequence)
	}
	if last := f.Spectrum.Frequencies[f.Spectrum.Len()-1]; last > 60 {
		t.Fatalf("streamed spectrum ends at %v Hz, want <= 60", last)
	}
}
