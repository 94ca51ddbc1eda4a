package monitor

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"config", &ConfigError{Field: "notch_frequency", Reason: "too high"}, ErrConfiguration, "notch_frequency"},
		{"decode", &DecodeError{Offset: 4, Value: 9000, Min: 0, Max: 4095}, ErrDecode, "9000"},
		{"transport", &TransportError{Op: "read", Err: io.ErrUnexpectedEOF}, ErrTransport, "read"},
		{"unexpected", &UnexpectedError{Stage: "filter", Err: errors.New("nan")}, ErrUnexpected, "filter"},
	}

	sentinels := []error{ErrConfiguration, ErrDecode, ErrTransport, ErrUnexpected}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range sentinels {
				if got, want := errors.Is(tt.err, s), s == tt.sentinel; got != want {
					t.Fatalf("errors.Is(%v, %v) = %v, want %v", tt.err, s, got, want)
				}
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Fatalf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	err := error(&TransportError{Op: "available", Err: io.EOF})
	if !errors.Is(err, io.EOF) {
		t.Fatal("TransportError does not unwrap to its cause")
	}
}

func TestJoinedDecodeErrors(t *testing.T) {
	err := errors.Join(
		&DecodeError{Offset: 0, Value: 5000, Max: 4095},
		&DecodeError{Offset: 2, Value: 6000, Max: 4095},
	)
	if !errors.Is(err, ErrDecode) {
		t.Fatal("joined decode errors do not match ErrDecode")
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Value != 5000 {
		t.Fatalf("errors.As = %+v, want first decode error", de)
	}
}
