package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

// Stats holds a point-in-time snapshot of live tailing metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	TotalEvents  int64            `json:"total_events"`
	EPS          float64          `json:"eps"`
	LevelCounts  map[string]int64 `json:"level_counts"`
	DroppedLogs  int64            `json:"dropped_logs"`
	FilesWatched int              `json:"files_watched"`
}

// Aggregator consumes a stream of records and computes time-windowed
// metrics for the live stats endpoint.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	totalEvents int64
	levelCounts map[string]int64
	window      []time.Time // arrival times for EPS calculation (last 5 seconds)
	dropped     func() int64
	fileCount   func() int
	records     <-chan model.Record
}

// New creates an Aggregator reading from the given subscriber channel.
// droppedFn and fileCountFn provide live values from the hub and watcher.
func New(records <-chan model.Record, droppedFn func() int64, fileCountFn func() int) *Aggregator {
	return &Aggregator{
		startTime:   time.Now(),
		levelCounts: make(map[string]int64),
		dropped:     droppedFn,
		fileCount:   fileCountFn,
		records:     records,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[string]int64, len(a.levelCounts))
	for k, v := range a.levelCounts {
		counts[k] = v
	}

	// EPS over the sliding window.
	cutoff := time.Now().Add(-5 * time.Second)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:       time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents:  a.totalEvents,
		EPS:          float64(recent) / 5.0,
		LevelCounts:  counts,
		DroppedLogs:  a.dropped(),
		FilesWatched: a.fileCount(),
	}
}

// Start begins consuming records and updating metrics. Blocks until the
// context is cancelled or the channel closes.
func (a *Aggregator) Start(ctx context.Context) {
	// Periodically prune the sliding window.
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-a.records:
			if !ok {
				return
			}
			a.record(rec)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(rec model.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.levelCounts[levelKey(rec.Level)]++
	a.window = append(a.window, time.Now())
}

// prune removes arrival times older than 5 seconds from the sliding window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-5 * time.Second)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}

// levelKey buckets records without a level under NONE so the counts
// keep a stable key in JSON.
func levelKey(l model.Level) string {
	if l == "" {
		return "NONE"
	}
	return string(l)
}
