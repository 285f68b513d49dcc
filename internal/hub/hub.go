// Package hub fans parsed records out from the tail pipeline to any
// number of subscribers.
package hub

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/mikedotJS/loggy/internal/logging"
	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/parser"
)

var log = logging.Component("hub")

// subscriberBuffer is the per-subscriber channel capacity. A consumer
// that falls further behind than this starts losing records.
const subscriberBuffer = 1024

// Hub parses raw tailed lines and broadcasts the resulting records.
// Slow subscribers never block the pipeline; records they cannot keep
// up with are dropped and counted.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.Record]struct{}
	input       <-chan model.RawLine
	parser      *parser.Parser
	dropped     atomic.Int64
	lastFormat  string
}

// New creates a Hub consuming raw lines from input.
func New(input <-chan model.RawLine, p *parser.Parser) *Hub {
	return &Hub{
		subscribers: make(map[chan model.Record]struct{}),
		input:       input,
		parser:      p,
		lastFormat:  parser.FormatUnknown,
	}
}

// Run parses and broadcasts until the context is cancelled or the input
// channel closes.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-h.input:
			if !ok {
				return
			}
			rec, format, ok := h.parser.ParseLine(raw.Text, raw.Number)
			if !ok {
				continue
			}
			if raw.Source != "" {
				// Line numbers repeat across sources, so qualify the ID
				// with the file the line came from.
				rec.ID = fmt.Sprintf("%s#%d", filepath.Base(raw.Source), raw.Number)
				if rec.Source == "" {
					rec.Source = raw.Source
				}
			}
			h.setFormat(format)
			h.broadcast(rec)
		}
	}
}

// Subscribe registers a new consumer and returns its channel.
func (h *Hub) Subscribe() chan model.Record {
	ch := make(chan model.Record, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	log.WithField("subscribers", h.count()).Debug("subscriber added")
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (h *Hub) Unsubscribe(ch chan model.Record) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Dropped returns how many records were discarded because a subscriber
// could not keep up.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Format returns the label of the most recently matched line shape.
func (h *Hub) Format() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastFormat
}

func (h *Hub) setFormat(format string) {
	h.mu.Lock()
	h.lastFormat = format
	h.mu.Unlock()
}

func (h *Hub) broadcast(rec model.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- rec:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
