package testutil

import "encoding/binary"

// EncodeU16LE packs values as consecutive little-endian 16-bit units, the
// wire format of the acquisition front end.
func EncodeU16LE(values ...uint16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2*i:], v)
	}
	return out
}

// QuantizeU16 rounds each sample to the nearest integer, adds offset and
// clamps the result to the unsigned 16-bit range.
func QuantizeU16(samples []float64, offset float64) []uint16 {
	out := make([]uint16, len(samples))
	for i, x := range samples {
		v := x + offset
		switch {
		case v <= 0:
			out[i] = 0
		case v >= 65535:
			out[i] = 65535
		default:
			out[i] = uint16(v + 0.5)
		}
	}
	return out
}
