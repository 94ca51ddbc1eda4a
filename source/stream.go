package source

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

const readChunk = 4096

// Stream adapts a blocking io.ReadCloser to the polled Source contract.
// A background goroutine reads into an internal buffer, so Available and
// ReadFull never block on the underlying reader.
//
// When the reader fails or reaches EOF, the buffered bytes can still be
// read; once they are drained Available reports the failure.
type Stream struct {
	rc io.ReadCloser

	mu     sync.Mutex
	buf    []byte
	err    error
	closed bool

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewStream starts reading from rc in the background.
func NewStream(rc io.ReadCloser) *Stream {
	s := &Stream{
		rc:   rc,
		done: make(chan struct{}),
	}
	go s.pump()
	return s
}

func (s *Stream) pump() {
	defer close(s.done)

	chunk := make([]byte, readChunk)
	for {
		n, err := s.rc.Read(chunk)

		s.mu.Lock()
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("source: stream ended: %w", err)
			}
			if !s.closed {
				s.err = err
			}
		}
		stop := err != nil || s.closed
		s.mu.Unlock()

		if stop {
			return
		}
	}
}

// Available returns the number of buffered bytes.
func (s *Stream) Available() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if len(s.buf) == 0 && s.err != nil {
		return 0, s.err
	}
	return len(s.buf), nil
}

// ReadFull removes and returns the next n buffered bytes.
func (s *Stream) ReadFull(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if n < 0 {
		return nil, fmt.Errorf("source: negative read length %d", n)
	}
	if len(s.buf) < n {
		if s.err != nil {
			return nil, s.err
		}
		return nil, fmt.Errorf("%w: want %d, have %d", ErrShortRead, n, len(s.buf))
	}

	out := make([]byte, n)
	copy(out, s.buf)
	s.buf = s.buf[:copy(s.buf, s.buf[n:])]
	return out, nil
}

// Close closes the underlying reader and waits for the background
// goroutine to exit.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.buf = nil
		s.mu.Unlock()

		s.closeErr = s.rc.Close()
		<-s.done
	})
	return s.closeErr
}
