package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/goarticle/internal/aggregate"
	"github.com/hyperifyio/goarticle/internal/app"
	"github.com/hyperifyio/goarticle/internal/keywords"
	"github.com/hyperifyio/goarticle/internal/search"
)

const defaultSearxURL = "http://localhost:8888"

// debugsearch runs one search and prints the normalized results and the
// keywords that would be extracted from them.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	cfg      app.Config
	query    string
	field    string
	location string
}

// parseArgs reads flags and fills anything left unset from the same
// environment variables the server uses.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("debugsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.cfg.SearxURL, "searx.url", "", "SearxNG base URL (env SEARX_URL)")
	fs.StringVar(&o.cfg.SearxKey, "searx.key", "", "SearxNG API key (env SEARX_KEY)")
	fs.StringVar(&o.cfg.FileSearchPath, "search.file", "", "JSON fixture instead of SearxNG (env SEARCH_FILE)")
	fs.StringVar(&o.cfg.SearchLanguage, "search.lang", "", "SearxNG language code (env SEARCH_LANGUAGE)")
	fs.StringVar(&o.field, "field", "", "Field used for primary keywords; defaults to the query")
	fs.StringVar(&o.location, "location", "", "Location used for primary keywords")
	fs.IntVar(&o.cfg.SearchLimit, "n", 10, "Number of results")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	app.ApplyEnvToConfig(&o.cfg)
	if o.cfg.PerDomainCap == 0 {
		o.cfg.PerDomainCap = app.DefaultPerDomainCap
	}

	o.query = strings.Join(fs.Args(), " ")
	if o.query == "" {
		o.query = "real estate marketing trends"
	}
	if o.field == "" {
		o.field = o.query
	}
	return o, nil
}

func newProvider(cfg app.Config) search.Provider {
	if cfg.FileSearchPath != "" {
		return &search.FileProvider{Path: cfg.FileSearchPath}
	}
	base := cfg.SearxURL
	if base == "" {
		base = defaultSearxURL
	}
	return &search.SearxNG{
		BaseURL:    base,
		APIKey:     cfg.SearxKey,
		Language:   cfg.SearchLanguage,
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		UserAgent:  "debugsearch/1.0",
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	res, err := newProvider(o.cfg).Search(ctx, o.query, o.cfg.SearchLimit)
	if err != nil {
		fmt.Fprintln(stderr, "search error:", err)
	}
	res = aggregate.MergeAndNormalize([][]search.Result{res}, aggregate.Options{MaxTotal: o.cfg.MaxResults, PerDomain: o.cfg.PerDomainCap})
	for i, r := range res {
		fmt.Fprintf(stdout, "%d. %s - %s\n", i+1, r.Title, r.URL)
	}
	kw := keywords.Extract(o.field, o.location, "", res, keywords.Options{SecondaryCap: o.cfg.SecondaryCap})
	fmt.Fprintln(stdout, "primary:  ", strings.Join(kw.Primary, ", "))
	fmt.Fprintln(stdout, "secondary:", strings.Join(kw.Secondary, ", "))
	return 0
}
