package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

func TestEPSCalculation(t *testing.T) {
	ch := make(chan model.Record, 100)
	agg := New(ch, func() int64 { return 0 }, func() int { return 2 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	// Send 10 records quickly.
	for i := 0; i < 10; i++ {
		ch <- model.Record{Level: model.LevelInfo, Message: "test"}
	}

	// Wait for processing.
	time.Sleep(200 * time.Millisecond)

	stats := agg.Snapshot()
	if stats.TotalEvents != 10 {
		t.Errorf("expected 10 total events, got %d", stats.TotalEvents)
	}
	if stats.EPS <= 0 {
		t.Errorf("expected positive EPS, got %f", stats.EPS)
	}

	cancel()
}

func TestLevelCounts(t *testing.T) {
	ch := make(chan model.Record, 100)
	agg := New(ch, func() int64 { return 3 }, func() int { return 1 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	ch <- model.Record{Level: model.LevelInfo, Message: "a"}
	ch <- model.Record{Level: model.LevelInfo, Message: "b"}
	ch <- model.Record{Level: model.LevelError, Message: "c"}
	ch <- model.Record{Message: "d"} // no level
	ch <- model.Record{Level: model.LevelError, Message: "e"}

	time.Sleep(200 * time.Millisecond)

	stats := agg.Snapshot()
	if stats.LevelCounts["INFO"] != 2 {
		t.Errorf("expected 2 INFO, got %d", stats.LevelCounts["INFO"])
	}
	if stats.LevelCounts["ERROR"] != 2 {
		t.Errorf("expected 2 ERROR, got %d", stats.LevelCounts["ERROR"])
	}
	if stats.LevelCounts["NONE"] != 1 {
		t.Errorf("expected 1 NONE, got %d", stats.LevelCounts["NONE"])
	}
	if stats.DroppedLogs != 3 {
		t.Errorf("expected 3 dropped, got %d", stats.DroppedLogs)
	}
	if stats.FilesWatched != 1 {
		t.Errorf("expected 1 file watched, got %d", stats.FilesWatched)
	}

	cancel()
}

func TestSummarize(t *testing.T) {
	res := model.ParseResult{
		Filename:       "app.log",
		TotalLines:     6,
		DetectedFormat: "Plain text",
		FormatCounts:   map[string]int{"Standard format": 2, "Plain text": 2},
		Records: []model.Record{
			{Level: model.LevelInfo, Timestamp: time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)},
			{Level: model.LevelError, Timestamp: time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)},
			{Level: model.LevelError, Metadata: map[string]any{"k": "v"}},
			{},
		},
	}

	stats := Summarize(res)

	if stats.Records != 4 || stats.BlankLines != 2 {
		t.Errorf("expected 4 records and 2 blanks, got %d and %d", stats.Records, stats.BlankLines)
	}
	if stats.LevelCounts["ERROR"] != 2 || stats.LevelCounts["INFO"] != 1 || stats.LevelCounts["NONE"] != 1 {
		t.Errorf("unexpected level counts: %v", stats.LevelCounts)
	}
	if stats.WithTimestamp != 2 || stats.WithMetadata != 1 {
		t.Errorf("unexpected coverage counts: %d with timestamp, %d with metadata", stats.WithTimestamp, stats.WithMetadata)
	}
	want := time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)
	if !stats.Earliest.Equal(want) {
		t.Errorf("expected earliest %v, got %v", want, stats.Earliest)
	}
	want = time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)
	if !stats.Latest.Equal(want) {
		t.Errorf("expected latest %v, got %v", want, stats.Latest)
	}
	if stats.DetectedFormat != "Plain text" {
		t.Errorf("unexpected detected format: %q", stats.DetectedFormat)
	}
}
