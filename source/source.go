// Package source provides byte sources for the acquisition pipeline: raw
// streams (device nodes, files, TCP connections) and a synthetic EEG
// generator for running without hardware.
//
// Every source delivers little-endian unsigned 16-bit sample units and
// follows the same polling contract: Available never blocks, and ReadFull
// returns exactly the requested number of bytes once they are available.
package source

import (
	"errors"
	"fmt"
	"strings"
)

// Source is a polled byte source.
type Source interface {
	// Available returns the number of bytes that can be read without
	// blocking. An error means the source is no longer usable.
	Available() (int, error)
	// ReadFull returns exactly n bytes. Callers request at most what
	// Available reported.
	ReadFull(n int) ([]byte, error)
	// Close releases the source. It is safe to call more than once.
	Close() error
}

var (
	// ErrClosed is returned by operations on a closed source.
	ErrClosed = errors.New("source: closed")
	// ErrShortRead is returned when fewer bytes are buffered than requested.
	ErrShortRead = errors.New("source: not enough bytes available")
)

// Config selects and parameterizes a source.
//
// Transport is one of
//
//	synthetic           built-in signal generator
//	file:<path>         file or device node, e.g. file:/dev/ttyUSB0
//	tcp:<host>:<port>   TCP stream, e.g. from a serial-to-network bridge
//
// A bare path is treated as file:<path>. BaudRate documents the line
// speed of serial devices; the device itself must already be configured.
type Config struct {
	Transport string `yaml:"transport" default:"synthetic" validate:"required"`
	BaudRate  int    `yaml:"baud_rate" default:"115200" validate:"gt=0"`
}

// Kind identifies a transport scheme.
type Kind string

// Supported transport kinds.
const (
	KindSynthetic Kind = "synthetic"
	KindFile      Kind = "file"
	KindTCP       Kind = "tcp"
)

// ParseTransport splits a transport identifier into its kind and address.
func ParseTransport(transport string) (Kind, string, error) {
	transport = strings.TrimSpace(transport)
	switch {
	case transport == "":
		return "", "", errors.New("source: empty transport")
	case transport == string(KindSynthetic):
		return KindSynthetic, "", nil
	case strings.HasPrefix(transport, "file:"):
		path := strings.TrimPrefix(transport, "file:")
		if path == "" {
			return "", "", fmt.Errorf("source: missing path in %q", transport)
		}
		return KindFile, path, nil
	case strings.HasPrefix(transport, "tcp:"):
		addr := strings.TrimPrefix(transport, "tcp:")
		if !strings.Contains(addr, ":") {
			return "", "", fmt.Errorf("source: tcp transport needs host:port, got %q", transport)
		}
		return KindTCP, addr, nil
	default:
		return KindFile, transport, nil
	}
}
