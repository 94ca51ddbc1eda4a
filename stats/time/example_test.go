package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-eeg/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f p2p=%.1f zc=%d\n", s.RMS, s.PeakToPeak, s.ZeroCrossings)

	// Output:
	// rms=1.0 p2p=2.0 zc=3
}
