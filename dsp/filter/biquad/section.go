package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// FirstOrder reports whether the section degenerates to a first-order filter.
func (c Coefficients) FirstOrder() bool {
	return c.B2 == 0 && c.A2 == 0
}

// Order returns 1 for first-order sections and 2 otherwise.
func (c Coefficients) Order() int {
	if c.FirstOrder() {
		return 1
	}
	return 2
}

// DCGain returns H(z=1), the gain for a constant input. It returns false
// when the section has a pole at z=1.
func (c Coefficients) DCGain() (float64, bool) {
	den := 1 + c.A1 + c.A2
	if den == 0 {
		return 0, false
	}
	return (c.B0 + c.B1 + c.B2) / den, true
}

// SteadyState returns the delay-line state the section settles into after
// an infinitely long constant input u, and the corresponding output level.
// Starting from this state a step of height u produces no start-up transient.
func (c Coefficients) SteadyState(u float64) (state [2]float64, out float64) {
	g, ok := c.DCGain()
	if !ok {
		return [2]float64{}, 0
	}
	y := g * u
	state[1] = c.B2*u - c.A2*y
	state[0] = c.B1*u - c.A1*y + state[1]
	return state, y
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// processBlock is a 2x-unrolled scalar kernel; it returns the final state.
func processBlock(c Coefficients, d0, d1 float64, buf []float64) (float64, float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0

	n := len(buf)
	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		d0n := b1*x0 - a1*y0 + d1
		d1n := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + d0n
		d0 = b1*x1 - a1*y1 + d1n
		d1 = b2*x1 - a2*y1

		buf[i] = y0
		buf[i+1] = y1
	}

	if i < n {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}
