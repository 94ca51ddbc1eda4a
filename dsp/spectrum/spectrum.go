package spectrum

import (
	"errors"
	"sort"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// Spectrum is a one-sided magnitude spectrum. Frequencies are in Hz,
// strictly ascending, and Magnitudes holds the matching non-negative
// linear magnitudes. Both slices always have the same length.
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes"`
}

var errLengthMismatch = errors.New("spectrum: frequency/magnitude length mismatch")

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s.Frequencies) }

// Validate reports whether the two sequences have equal length.
func (s Spectrum) Validate() error {
	if len(s.Frequencies) != len(s.Magnitudes) {
		return errLengthMismatch
	}
	return nil
}

// Crop returns the bins with frequency <= maxHz. The result shares memory
// with s. A non-positive maxHz returns s unchanged.
func (s Spectrum) Crop(maxHz float64) Spectrum {
	if maxHz <= 0 {
		return s
	}
	n := sort.Search(len(s.Frequencies), func(i int) bool { return s.Frequencies[i] > maxHz })
	return Spectrum{
		Frequencies: s.Frequencies[:n],
		Magnitudes:  s.Magnitudes[:n],
	}
}

// Clone returns a deep copy of s.
func (s Spectrum) Clone() Spectrum {
	return Spectrum{
		Frequencies: append([]float64(nil), s.Frequencies...),
		Magnitudes:  append([]float64(nil), s.Magnitudes...),
	}
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// This is the zero-allocation path for callers that already have real and
// imaginary parts in separate slices. All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}
