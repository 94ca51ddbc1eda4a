// Package monitor implements the streaming acquisition and spectral
// analysis pipeline of a single-channel EEG monitor.
//
// A Pipeline owns a fixed-capacity rolling sample buffer, a FilterBank
// (zero-phase mains notch followed by a zero-phase Butterworth lowpass) and
// a Hamming-windowed spectrum analyzer. Raw little-endian 16-bit sample
// units are pushed in with Ingest; Tick filters a snapshot of the whole
// buffer and returns its one-sided magnitude spectrum without touching
// the buffer.
//
// A Runner drives a Pipeline from a source.Source on a fixed interval and
// publishes each Frame to a Sink.
//
// Errors fall into four classes, each matchable with errors.Is against a
// sentinel and with errors.As against its concrete type:
//
//	ErrConfiguration  *ConfigError     invalid configuration, fatal at construction
//	ErrDecode         *DecodeError     one sample unit discarded, ingestion continues
//	ErrTransport      *TransportError  the byte source failed and was released
//	ErrUnexpected     *UnexpectedError one tick skipped, state unaffected
package monitor
