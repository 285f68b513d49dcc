package cmd

import (
	"fmt"
	"strings"

	"github.com/mikedotJS/loggy/internal/filter"
	"github.com/mikedotJS/loggy/internal/model"
)

// buildCriteria converts the shared filter flags into criteria. Level
// names are case-insensitive; from/to accept RFC 3339, "2006-01-02
// 15:04:05" or a bare date.
func buildCriteria(levels []string, search, from, to string, meta []string) (filter.Criteria, error) {
	var criteria filter.Criteria

	for _, raw := range levels {
		for _, l := range strings.Split(raw, ",") {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			criteria.Levels = append(criteria.Levels, model.Level(strings.ToUpper(l)))
		}
	}

	criteria.Query = search

	if from != "" {
		ts, err := filter.ParseTime(from)
		if err != nil {
			return criteria, fmt.Errorf("--from: %w", err)
		}
		criteria.From = ts
	}
	if to != "" {
		ts, err := filter.ParseTime(to)
		if err != nil {
			return criteria, fmt.Errorf("--to: %w", err)
		}
		criteria.To = ts
	}

	for _, pair := range meta {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return criteria, fmt.Errorf("--meta %q is not key=value", pair)
		}
		if criteria.Metadata == nil {
			criteria.Metadata = make(map[string]string)
		}
		criteria.Metadata[key] = value
	}

	return criteria, nil
}
