package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-eeg/monitor"
)

const subscriberBuffer = 8

// Hub keeps the latest frame for polling clients and fans frames out to
// streaming subscribers. It implements monitor.Sink.
//
// Publish never blocks: a subscriber whose buffer is full is dropped and
// its channel closed.
type Hub struct {
	maxHz  float64
	logger *zap.Logger

	mu      sync.RWMutex
	latest  *monitor.Frame
	message []byte
	subs    map[chan []byte]struct{}
}

var _ monitor.Sink = (*Hub)(nil)

// NewHub creates a hub that crops streamed spectra at maxHz (0 keeps the
// full range).
func NewHub(maxHz float64, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		maxHz:  maxHz,
		logger: logger,
		subs:   make(map[chan []byte]struct{}),
	}
}

// Publish stores f as the latest frame and sends it to every subscriber.
func (h *Hub) Publish(f monitor.Frame) {
	msg, err := json.Marshal(f.Cropped(h.maxHz))
	if err != nil {
		h.logger.Error("encoding frame", zap.Uint64("sequence", f.Sequence), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &f
	h.message = msg
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			delete(h.subs, ch)
			close(ch)
			h.logger.Warn("dropping slow subscriber", zap.Uint64("sequence", f.Sequence))
		}
	}
}

// Latest returns the most recent frame.
func (h *Hub) Latest() (monitor.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.latest == nil {
		return monitor.Frame{}, false
	}
	return *h.latest, true
}

// Subscribe returns a channel of encoded frames, primed with the latest
// one, and a function that ends the subscription. The channel is closed
// when the subscriber is dropped or cancelled.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	if h.message != nil {
		ch <- h.message
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
