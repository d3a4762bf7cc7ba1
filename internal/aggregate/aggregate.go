package aggregate

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/goarticle/internal/extract"
	"github.com/hyperifyio/goarticle/internal/search"
)

// Options bounds the normalized result set. Zero values disable a bound.
type Options struct {
	MaxTotal  int
	PerDomain int
	// MinExcerptChars drops results whose cleaned excerpt has fewer than this
	// many characters.
	MinExcerptChars int
}

// MergeAndNormalize merges result groups in order, canonicalizes URLs, trims
// tracking parameters, de-duplicates, strips markup from titles and excerpts
// and applies the bounds in opt. Input order is preserved.
func MergeAndNormalize(groups [][]search.Result, opt Options) []search.Result {
	seen := map[string]struct{}{}
	perHost := map[string]int{}
	out := make([]search.Result, 0, 16)
	for _, g := range groups {
		for _, r := range g {
			if opt.MaxTotal > 0 && len(out) >= opt.MaxTotal {
				return out
			}
			u, err := url.Parse(strings.TrimSpace(r.URL))
			if err != nil || u.Host == "" {
				continue
			}
			normalizeURL(u)
			key := u.String()
			if _, ok := seen[key]; ok {
				continue
			}
			r.Title = extract.Text(r.Title)
			r.Excerpt = extract.Text(r.Excerpt)
			if opt.MinExcerptChars > 0 && len([]rune(r.Excerpt)) < opt.MinExcerptChars {
				continue
			}
			host := u.Hostname()
			if opt.PerDomain > 0 && perHost[host] >= opt.PerDomain {
				continue
			}
			seen[key] = struct{}{}
			perHost[host]++
			r.URL = key
			out = append(out, r)
		}
	}
	return out
}

var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid", "msclkid"}

func normalizeURL(u *url.URL) {
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) || (u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Hostname()
	}
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
}
