package cmd

import (
	"reflect"
	"testing"
	"time"

	"github.com/mikedotJS/loggy/internal/model"
)

func TestBuildCriteriaLevels(t *testing.T) {
	criteria, err := buildCriteria([]string{"error,warn", "INFO"}, "", "", "", nil)
	if err != nil {
		t.Fatalf("buildCriteria: %v", err)
	}
	want := []model.Level{model.LevelError, model.LevelWarn, model.LevelInfo}
	if !reflect.DeepEqual(criteria.Levels, want) {
		t.Errorf("levels = %v, want %v", criteria.Levels, want)
	}
}

func TestBuildCriteriaTimeRange(t *testing.T) {
	criteria, err := buildCriteria(nil, "", "2025-01-15T10:00:00Z", "2025-01-16", nil)
	if err != nil {
		t.Fatalf("buildCriteria: %v", err)
	}
	if criteria.From != time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) {
		t.Errorf("from = %v", criteria.From)
	}
	if criteria.To != time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC) {
		t.Errorf("to = %v", criteria.To)
	}
}

func TestBuildCriteriaBadTime(t *testing.T) {
	if _, err := buildCriteria(nil, "", "yesterday", "", nil); err == nil {
		t.Error("expected error for unparseable --from")
	}
}

func TestBuildCriteriaMetadata(t *testing.T) {
	criteria, err := buildCriteria(nil, "", "", "", []string{"userId=123", "region=eu-west-1"})
	if err != nil {
		t.Fatalf("buildCriteria: %v", err)
	}
	if criteria.Metadata["userId"] != "123" || criteria.Metadata["region"] != "eu-west-1" {
		t.Errorf("metadata = %v", criteria.Metadata)
	}

	if _, err := buildCriteria(nil, "", "", "", []string{"broken"}); err == nil {
		t.Error("expected error for --meta without =")
	}
}

func TestBuildCriteriaZeroValueMatchesAll(t *testing.T) {
	criteria, err := buildCriteria(nil, "", "", "", nil)
	if err != nil {
		t.Fatalf("buildCriteria: %v", err)
	}
	rec := model.Record{Message: "anything", Level: model.LevelDebug}
	if !criteria.Match(rec) {
		t.Error("empty criteria rejected a record")
	}
}

func TestSortedByCount(t *testing.T) {
	counts := map[string]int{"Plain text": 3, "JSON format": 12, "ISO with level": 12}
	got := sortedByCount(counts)
	want := []string{"ISO with level", "JSON format", "Plain text"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}
