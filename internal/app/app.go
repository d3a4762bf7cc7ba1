package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goarticle/internal/aggregate"
	"github.com/hyperifyio/goarticle/internal/article"
	"github.com/hyperifyio/goarticle/internal/brief"
	"github.com/hyperifyio/goarticle/internal/cache"
	"github.com/hyperifyio/goarticle/internal/keywords"
	"github.com/hyperifyio/goarticle/internal/llm"
	"github.com/hyperifyio/goarticle/internal/planner"
	"github.com/hyperifyio/goarticle/internal/search"
)

// App runs the article pipeline: plan, search, normalize, extract keywords
// and generate. It holds no per-request state and is safe for concurrent use.
type App struct {
	cfg      Config
	provider search.Provider
	planner  PlannerFacade
	store    *cache.Store
}

// Result is one generated article with its keywords.
type Result struct {
	Article  article.Article
	Keywords keywords.Set
	Query    string
}

// Option customizes New. Tests use it to inject collaborators.
type Option func(*App)

// WithSearchProvider replaces the provider built from Config.
func WithSearchProvider(p search.Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithPlanner replaces the LLM planner built from Config.
func WithPlanner(p planner.Planner) Option {
	return func(a *App) { a.planner.llm = p }
}

// WithClock sets the clock used by the fallback planner.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.planner.fb.Now = now }
}

// New wires the collaborators described by cfg. Missing search or LLM
// settings are not errors: generation then runs without them.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	a.planner.fb = &planner.FallbackPlanner{Suffix: cfg.QuerySuffix}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				return nil, fmt.Errorf("clear cache: %w", err)
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Info().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		a.store = &cache.Store{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms, MaxAge: cfg.CacheMaxAge}
	}

	httpClient := newHTTPClient(cfg.SearchTimeout)
	switch {
	case cfg.FileSearchPath != "":
		a.provider = &search.FileProvider{Path: cfg.FileSearchPath}
	case cfg.SearxURL != "":
		a.provider = &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey, UserAgent: cfg.SearxUA, Language: cfg.SearchLanguage, HTTPClient: httpClient}
	}
	if a.provider != nil && a.store != nil {
		a.provider = &search.Cached{Provider: a.provider, Store: a.store, Scope: cfg.SearchLanguage}
	}

	if cfg.LLMModel != "" {
		client := llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, httpClient)
		a.planner.llm = &planner.LLMPlanner{Client: client, Model: cfg.LLMModel, Cache: a.store, Verbose: cfg.Verbose}
		preflight(ctx, client)
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.provider == nil {
		log.Warn().Msg("no search provider configured; secondary keywords will be empty")
	}
	return a, nil
}

// preflight lists models to surface a misconfigured endpoint early. It never
// fails startup.
func preflight(ctx context.Context, l llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := l.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Generate runs the pipeline for one validated request. Search and planner
// failures are logged and replaced with empty results, so a failed search
// always yields empty secondary keywords. Only article rendering can fail.
func (a *App) Generate(ctx context.Context, req brief.Request) (Result, error) {
	plan := a.planner.Plan(ctx, req)

	results := a.search(ctx, plan.Query)
	normalized := aggregate.MergeAndNormalize([][]search.Result{results}, aggregate.Options{
		MaxTotal:        orDefault(a.cfg.MaxResults, DefaultMaxResults),
		PerDomain:       orDefault(a.cfg.PerDomainCap, DefaultPerDomainCap),
		MinExcerptChars: a.cfg.MinExcerptChars,
	})

	secondaryCap := orDefault(a.cfg.SecondaryCap, DefaultSecondaryCap)
	kw := keywords.Extract(req.Field, req.Location, req.Topic, normalized, keywords.Options{
		SecondaryCap: secondaryCap,
		Exclude:      strings.Fields(a.querySuffix()),
	})
	// Secondary keywords come from search text; planner ideas only extend a
	// list that search results already support.
	if len(normalized) > 0 {
		kw = keywords.Merge(kw, plan.Keywords, secondaryCap)
	}

	art, err := article.Generate(article.Input{
		Words:     req.Words,
		Field:     req.Field,
		Location:  req.Location,
		Topic:     req.Topic,
		Tone:      req.Tone,
		Primary:   kw.Primary,
		Secondary: kw.Secondary,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generate article: %w", err)
	}
	log.Info().
		Str("query", plan.Query).
		Int("results", len(normalized)).
		Int("secondary", len(kw.Secondary)).
		Int("words", art.WordCount).
		Msg("article generated")
	return Result{Article: art, Keywords: kw, Query: plan.Query}, nil
}

func (a *App) search(ctx context.Context, query string) []search.Result {
	if a.provider == nil {
		return nil
	}
	limit := orDefault(a.cfg.SearchLimit, DefaultSearchLimit)
	results, err := a.provider.Search(ctx, query, limit)
	if err != nil {
		log.Warn().Err(err).Str("provider", a.provider.Name()).Str("query", query).Msg("search error")
		return nil
	}
	log.Debug().Str("query", query).Int("results", len(results)).Msg("search done")
	return results
}

func (a *App) querySuffix() string {
	if strings.TrimSpace(a.cfg.QuerySuffix) != "" {
		return a.cfg.QuerySuffix
	}
	return planner.DefaultSuffix
}

// PlannerFacade tries the LLM planner first and falls back deterministically.
type PlannerFacade struct {
	llm planner.Planner
	fb  *planner.FallbackPlanner
}

func (f PlannerFacade) Plan(ctx context.Context, req brief.Request) planner.Plan {
	if f.llm != nil {
		p, err := f.llm.Plan(ctx, req)
		if err == nil {
			return p
		}
		log.Warn().Err(err).Msg("planner failed, using fallback")
	}
	p, _ := f.fb.Plan(ctx, req)
	return p
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
