package monitor_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-eeg/internal/testutil"
	"github.com/cwbudde/algo-eeg/monitor"
)

func ExampleNew_configurationError() {
	cfg := monitor.DefaultConfig()
	cfg.NotchFrequency = 125

	_, err := monitor.New(cfg)
	fmt.Println(errors.Is(err, monitor.ErrConfiguration))
	fmt.Println(err)
	// Output:
	// true
	// monitor: invalid notch_frequency: 125 Hz must be below Nyquist 125 Hz
}

func ExamplePipeline_Tick() {
	cfg := monitor.DefaultConfig()
	cfg.BufferSize = 10
	cfg.FilterOrder = 2
	cfg.LowpassCutoff = 100

	p, err := monitor.New(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	if _, err := p.Ingest(testutil.EncodeU16LE(0, 0, 0, 0, 1000, 0, 0, 0, 0, 0)); err != nil {
		fmt.Println(err)
		return
	}
	spec, err := p.Tick()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.2f\n", spec.Frequencies)
	// Output:
	// [25.00 50.00 75.00 100.00 125.00]
}

func ExamplePipeline_Ingest() {
	p, err := monitor.New(monitor.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}

	n, _ := p.Ingest([]byte{0x34, 0x12, 0x78})
	fmt.Println(n, p.Pending())
	n, _ = p.Ingest([]byte{0x56})
	fmt.Println(n, p.Pending())

	snap := p.Snapshot()
	fmt.Printf("%#04x %#04x\n", int(snap[len(snap)-2]), int(snap[len(snap)-1]))
	// Output:
	// 1 true
	// 1 false
	// 0x1234 0x5678
}
