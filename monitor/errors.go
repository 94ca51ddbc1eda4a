package monitor

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration classifies configuration errors.
	ErrConfiguration = errors.New("monitor: configuration error")
	// ErrDecode classifies per-unit decode errors.
	ErrDecode = errors.New("monitor: decode error")
	// ErrTransport classifies byte source failures.
	ErrTransport = errors.New("monitor: transport error")
	// ErrUnexpected classifies per-tick computation failures.
	ErrUnexpected = errors.New("monitor: unexpected error")
)

// ConfigError reports an invalid configuration parameter.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "monitor: invalid " + e.Field + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DecodeError reports a sample unit outside the device range. Offset is
// the byte offset of the unit within the Ingest call that received it.
type DecodeError struct {
	Offset int
	Value  uint16
	Min    uint16
	Max    uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("monitor: sample %d at byte %d outside device range [%d, %d]",
		e.Value, e.Offset, e.Min, e.Max)
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// TransportError reports a failure of the byte source.
type TransportError struct {
	Op  string // "available" or "read"
	Err error
}

func (e *TransportError) Error() string {
	return "monitor: transport " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// UnexpectedError reports a failed tick computation.
type UnexpectedError struct {
	Stage string // "filter", "analyze" or "panic"
	Err   error
}

func (e *UnexpectedError) Error() string {
	return "monitor: " + e.Stage + ": " + e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnexpected.
func (e *UnexpectedError) Is(target error) bool { return target == ErrUnexpected }
