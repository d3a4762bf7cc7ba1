package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileProvider serves results from a local JSON fixture, for offline runs and
// tests. The file is an array of {"title", "url", "excerpt"} objects.
//
// A result matches when any query term of three or more characters appears in
// its title or excerpt; an empty query matches everything.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	terms := queryTerms(query)
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if !matchesAny(r, terms) {
			continue
		}
		r.Source = f.Name()
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := fields[:0]
	for _, t := range fields {
		if len(t) >= 3 {
			out = append(out, t)
		}
	}
	return out
}

func matchesAny(r Result, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	hay := strings.ToLower(r.Title + " " + r.Excerpt)
	for _, t := range terms {
		if strings.Contains(hay, t) {
			return true
		}
	}
	return false
}
