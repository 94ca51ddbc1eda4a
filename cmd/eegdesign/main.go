// Command eegdesign prints the filters and analysis parameters the monitor
// derives from a configuration.
//
// Usage:
//
//	eegdesign [flags]
//
// Examples:
//
//	eegdesign
//	eegdesign -config eegmon.yaml
//	eegdesign -notch 60 -lowpass 40 -order 6
//	eegdesign -freqs 1,10,49,50,51,100
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
	"github.com/cwbudde/algo-eeg/dsp/window"
	"github.com/cwbudde/algo-eeg/internal/config"
	"github.com/cwbudde/algo-eeg/monitor"
)

type overrides struct {
	sampleRate float64
	bufferSize int
	lowpass    float64
	notch      float64
	order      int
	q          float64
}

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	var o overrides
	flag.Float64Var(&o.sampleRate, "rate", 0, "sample rate in Hz")
	flag.IntVar(&o.bufferSize, "buffer", 0, "buffer size in samples")
	flag.Float64Var(&o.lowpass, "lowpass", 0, "lowpass cutoff in Hz")
	flag.Float64Var(&o.notch, "notch", 0, "notch frequency in Hz")
	flag.IntVar(&o.order, "order", 0, "lowpass filter order")
	flag.Float64Var(&o.q, "q", 0, "notch quality factor (center / -3 dB width)")
	freqs := flag.String("freqs", "", "comma-separated response frequencies in Hz")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eegdesign [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints notch and lowpass coefficients, their response and the\n")
		fmt.Fprintf(os.Stderr, "analysis window for a monitor configuration. Flags override the file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	mc := o.apply(cfg.Monitor)

	points, err := parseFreqs(*freqs, mc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := report(os.Stdout, mc, points); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (o overrides) apply(c monitor.Config) monitor.Config {
	if o.sampleRate > 0 {
		c.SampleRate = o.sampleRate
	}
	if o.bufferSize > 0 {
		c.BufferSize = o.bufferSize
	}
	if o.lowpass > 0 {
		c.LowpassCutoff = o.lowpass
	}
	if o.notch > 0 {
		c.NotchFrequency = o.notch
	}
	if o.order > 0 {
		c.FilterOrder = o.order
	}
	if o.q > 0 {
		c.NotchQ = o.q
	}
	return c
}

// parseFreqs parses a frequency list, defaulting to a spread of points
// around the notch and cutoff.
func parseFreqs(s string, c monitor.Config) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return []float64{
			1, 10,
			c.NotchFrequency - 1, c.NotchFrequency, c.NotchFrequency + 1,
			c.LowpassCutoff,
			c.Nyquist() * 0.9,
		}, nil
	}

	var out []float64
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid frequency %q", field)
		}
		out = append(out, v)
	}
	return out, nil
}

func report(w io.Writer, c monitor.Config, freqs []float64) error {
	fb, err := monitor.NewFilterBank(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Sample rate:  %g Hz (Nyquist %g Hz)\n", c.SampleRate, c.Nyquist())
	fmt.Fprintf(w, "Buffer:       %d samples (%.3f s), minimum %d\n",
		c.BufferSize, float64(c.BufferSize)/c.SampleRate, monitor.MinCapacity(c.FilterOrder))
	fmt.Fprintf(w, "Resolution:   %.4f Hz, %d bins above DC\n", c.SampleRate/float64(c.BufferSize), c.BufferSize/2)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Notch %g Hz, Q %g (-3 dB width %.3f Hz)\n", c.NotchFrequency, c.NotchQ, c.NotchFrequency/c.NotchQ)
	printSections(w, fb.NotchSections())
	printTransfer(w, fb.Notch())
	printSettling(w, fb.NotchSections(), c.SampleRate)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Butterworth lowpass %g Hz, order %d\n", c.LowpassCutoff, c.FilterOrder)
	printSections(w, fb.LowpassSections())
	printTransfer(w, fb.Lowpass())
	printSettling(w, fb.LowpassSections(), c.SampleRate)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Zero-phase response (notch then lowpass, forward and backward):")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Hz\tdB\t")
	for _, f := range freqs {
		if f >= c.Nyquist() {
			fmt.Fprintf(tw, "%.2f\t-\t\n", f)
			continue
		}
		db := fb.ResponseDB(f)
		if math.IsInf(db, -1) || db < -300 {
			fmt.Fprintf(tw, "%.2f\t-inf\t\n", f)
			continue
		}
		fmt.Fprintf(tw, "%.2f\t%.2f\t\n", f, db)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	coeffs := window.Generate(window.TypeHamming, c.BufferSize)
	a := window.Analyze(coeffs)
	info := window.Info(window.TypeHamming)
	fmt.Fprintf(w, "Window %s, %d points\n", info.Name, c.BufferSize)
	fmt.Fprintf(w, "  coherent gain   %.4f\n", a.CoherentGain)
	fmt.Fprintf(w, "  ENBW            %.4f bins\n", a.ENBW)
	fmt.Fprintf(w, "  3 dB bandwidth  %.4f bins (%.4f Hz)\n", a.Bandwidth3dB, a.Bandwidth3dB*c.SampleRate/float64(c.BufferSize))
	fmt.Fprintf(w, "  scallop loss    %.2f dB\n", a.ScallopLossdB)
	fmt.Fprintf(w, "  highest sidelobe %.1f dB\n", info.HighestSidelobe)

	return nil
}

func printSections(w io.Writer, sections []biquad.Coefficients) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "section\tb0\tb1\tb2\ta1\ta2\tpole r\t")
	for i, s := range sections {
		fmt.Fprintf(tw, "%d\t%.9f\t%.9f\t%.9f\t%.9f\t%.9f\t%.5f\t\n",
			i, s.B0, s.B1, s.B2, s.A1, s.A2, biquad.MaxPoleRadius([]biquad.Coefficients{s}))
	}
	_ = tw.Flush()
}

func printTransfer(w io.Writer, tf biquad.TransferFunction) {
	fmt.Fprintf(w, "  b = %s\n", formatTaps(tf.B))
	fmt.Fprintf(w, "  a = %s\n", formatTaps(tf.A))
}

// printSettling reports when the impulse response last exceeds -60 dB of
// its peak, which bounds the edge transient of each filtering pass.
func printSettling(w io.Writer, sections []biquad.Coefficients, sampleRate float64) {
	h := biquad.NewChain(sections).ImpulseResponse(int(10 * sampleRate))

	peak := 0.0
	for _, v := range h {
		peak = math.Max(peak, math.Abs(v))
	}
	last := 0
	for i, v := range h {
		if math.Abs(v) > peak*1e-3 {
			last = i
		}
	}
	fmt.Fprintf(w, "  settles to -60 dB after %d samples (%.3f s)\n", last+1, float64(last+1)/sampleRate)
}

func formatTaps(taps []float64) string {
	parts := make([]string, len(taps))
	for i, v := range taps {
		parts[i] = strconv.FormatFloat(v, 'g', 10, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
