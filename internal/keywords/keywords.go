package keywords

import (
	"sort"
	"strings"

	"github.com/hyperifyio/goarticle/internal/search"
)

// Default caps for the two keyword lists.
const (
	DefaultPrimaryCap   = 8
	DefaultSecondaryCap = 12
)

// Set holds the keywords for one article. Primary terms come from the
// request itself, Secondary terms from search result text.
type Set struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// Options caps the list lengths. Zero values use the defaults.
type Options struct {
	PrimaryCap   int
	SecondaryCap int
	// MinTokenRunes drops shorter tokens from Secondary. Default 3.
	MinTokenRunes int
	// Exclude lists extra words never to report as Secondary, such as the
	// boilerplate terms appended to the search query.
	Exclude []string
}

func (o Options) withDefaults() Options {
	if o.PrimaryCap <= 0 {
		o.PrimaryCap = DefaultPrimaryCap
	}
	if o.SecondaryCap <= 0 {
		o.SecondaryCap = DefaultSecondaryCap
	}
	if o.MinTokenRunes <= 0 {
		o.MinTokenRunes = 3
	}
	return o
}

// Extract derives both keyword lists. It never fails: Primary is non-empty
// whenever field is, and Secondary is empty when results carry no usable text.
func Extract(field, location, topic string, results []search.Result, opt Options) Set {
	opt = opt.withDefaults()
	return Set{
		Primary:   Primary(field, location, topic, opt.PrimaryCap),
		Secondary: Secondary(field, location, topic, results, opt),
	}
}

// Primary combines the structured inputs into phrases in a fixed order,
// de-duplicated case-insensitively.
func Primary(field, location, topic string, limit int) []string {
	field = strings.TrimSpace(field)
	location = strings.TrimSpace(location)
	topic = strings.TrimSpace(topic)

	candidates := []string{field, topic}
	if location != "" {
		candidates = append(candidates, join(field, location), join(topic, location))
	}
	if topic != "" && !containsFold(topic, field) {
		candidates = append(candidates, join(topic, field))
	}
	if field != "" {
		candidates = append(candidates, field+" tips", field+" guide")
	}

	out := make([]string, 0, len(candidates))
	seen := map[string]struct{}{}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		key := fold(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

type scored struct {
	term  string
	score int
	first int
}

// Secondary scores tokens from result titles and excerpts by frequency,
// titles counting double, and returns the top terms. Ties keep first-seen
// order. Stopwords, short tokens, numbers and words already present in the
// request are dropped.
func Secondary(field, location, topic string, results []search.Result, opt Options) []string {
	opt = opt.withDefaults()
	exclude := map[string]struct{}{}
	for _, t := range Tokenize(field + " " + location + " " + topic + " " + strings.Join(opt.Exclude, " ")) {
		exclude[t] = struct{}{}
	}

	byTerm := map[string]*scored{}
	order := 0
	add := func(text string, weight int) {
		for _, tok := range Tokenize(text) {
			if !keep(tok, opt.MinTokenRunes) {
				continue
			}
			if _, ok := exclude[tok]; ok {
				continue
			}
			s, ok := byTerm[tok]
			if !ok {
				s = &scored{term: tok, first: order}
				byTerm[tok] = s
				order++
			}
			s.score += weight
		}
	}
	for _, r := range results {
		add(r.Title, 2)
		add(r.Excerpt, 1)
	}

	ranked := make([]*scored, 0, len(byTerm))
	for _, s := range byTerm {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].first < ranked[j].first
	})
	if len(ranked) > opt.SecondaryCap {
		ranked = ranked[:opt.SecondaryCap]
	}
	out := make([]string, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.term)
	}
	return out
}

// Merge appends extra terms to set.Secondary while it holds fewer than limit
// entries, skipping anything already present in either list.
func Merge(set Set, extra []string, limit int) Set {
	if limit <= 0 {
		limit = DefaultSecondaryCap
	}
	seen := map[string]struct{}{}
	for _, k := range set.Primary {
		seen[fold(k)] = struct{}{}
	}
	secondary := make([]string, 0, limit)
	for _, k := range set.Secondary {
		seen[fold(k)] = struct{}{}
		secondary = append(secondary, k)
	}
	for _, k := range extra {
		if len(secondary) >= limit {
			break
		}
		k = strings.Join(strings.Fields(k), " ")
		if k == "" {
			continue
		}
		key := fold(k)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		secondary = append(secondary, k)
	}
	set.Secondary = secondary
	return set
}

func join(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return a + " " + b
}

func containsFold(s, sub string) bool {
	return sub != "" && strings.Contains(fold(s), fold(sub))
}
