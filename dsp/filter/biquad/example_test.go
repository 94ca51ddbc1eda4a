package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/filter/biquad"
)

func ExampleSection_ProcessSample() {
	s := biquad.NewSection(biquad.Coefficients{
		B0: 0.25, B1: 0.5, B2: 0.25,
		A1: -0.2, A2: 0.04,
	})

	for i := range 4 {
		var x float64
		if i == 0 {
			x = 1
		}

		fmt.Printf("y[%d] = %.4f\n", i, s.ProcessSample(x))
	}
	// Output:
	// y[0] = 0.2500
	// y[1] = 0.5500
	// y[2] = 0.3500
	// y[3] = 0.0480
}

func ExampleChain_ProcessSample() {
	chain := biquad.NewChain([]biquad.Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	})

	fmt.Printf("Order: %d, Sections: %d\n", chain.Order(), chain.NumSections())

	for i := range 4 {
		fmt.Printf("y[%d] = %.6f\n", i, chain.ProcessSample(1))
	}
	// Output:
	// Order: 4, Sections: 2
	// y[0] = 0.025000
	// y[1] = 0.142500
	// y[2] = 0.368750
	// y[3] = 0.599925
}

func ExampleFiltFilt() {
	coeffs := []biquad.Coefficients{{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}}

	src := []float64{3, 3, 3, 3, 3, 3, 3, 3, 3, 3}
	dst := make([]float64, len(src))
	if err := biquad.FiltFilt(dst, src, coeffs, 0.84); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.3f\n", dst)
	// Output:
	// [3.000 3.000 3.000 3.000 3.000 3.000 3.000 3.000 3.000 3.000]
}

func ExampleNewTransferFunction() {
	tf := biquad.NewTransferFunction([]biquad.Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
	}, 2)

	fmt.Printf("b = %.2f\n", tf.B)
	fmt.Printf("a = %.2f\n", tf.A)
	// Output:
	// b = [0.50 1.00 0.50]
	// a = [1.00 -0.20 0.04]
}
