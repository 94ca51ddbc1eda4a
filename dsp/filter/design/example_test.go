package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
	"github.com/cwbudde/algo-eeg/dsp/filter/design"
)

func ExampleNotchBandwidth() {
	notch := design.NotchBandwidth(50, 30, 250)
	chain := biquad.NewChain([]biquad.Coefficients{notch})

	fmt.Printf("10 Hz: %.2f dB\n", chain.MagnitudeDB(10, 250))
	fmt.Printf("49 Hz: %.2f dB\n", chain.MagnitudeDB(49, 250))
	fmt.Printf("pole radius: %.3f\n", biquad.MaxPoleRadius([]biquad.Coefficients{notch}))
	// Output:
	// 10 Hz: -0.00 dB
	// 49 Hz: -2.28 dB
	// pole radius: 0.979
}
