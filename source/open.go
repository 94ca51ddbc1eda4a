package source

import (
	"fmt"
	"net"
	"os"
	"time"
)

const dialTimeout = 5 * time.Second

// Open creates the source described by cfg. sampleRate is used by the
// synthetic generator only.
func Open(cfg Config, sampleRate float64) (Source, error) {
	kind, addr, err := ParseTransport(cfg.Transport)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSynthetic:
		syn := DefaultSyntheticConfig()
		syn.SampleRate = sampleRate
		return NewSynthetic(syn)
	case KindFile:
		f, err := os.OpenFile(addr, os.O_RDONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("source: open %s: %w", addr, err)
		}
		return NewStream(f), nil
	case KindTCP:
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err != nil {
			return nil, fmt.Errorf("source: dial %s: %w", addr, err)
		}
		return NewStream(conn), nil
	default:
		return nil, fmt.Errorf("source: unsupported transport %q", cfg.Transport)
	}
}
