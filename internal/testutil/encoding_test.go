package testutil

import "testing"

func TestEncodeU16LE(t *testing.T) {
	got := EncodeU16LE(0x0102, 0xFFEE)
	want := []byte{0x02, 0x01, 0xEE, 0xFF}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
	if len(EncodeU16LE()) != 0 {
		t.Fatal("empty input must encode to no bytes")
	}
}

func TestQuantizeU16(t *testing.T) {
	got := QuantizeU16([]float64{-600, 0.4, 0.6, 70000}, 512)
	want := []uint16{0, 512, 513, 65535}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("QuantizeU16[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
