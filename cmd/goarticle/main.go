package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goarticle/internal/app"
	"github.com/hyperifyio/goarticle/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

// loadConfig resolves configuration with precedence flags > env > config file
// > defaults. Dotenv files named by -env are loaded into the environment first.
func loadConfig(args []string, stderr io.Writer) (app.Config, error) {
	fs := flag.NewFlagSet("goarticle", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfg        app.Config
		configPath string
		envFiles   string
	)
	fs.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load; missing files are ignored")
	fs.StringVar(&cfg.Addr, "addr", app.DefaultAddr, "HTTP listen address")
	fs.StringVar(&cfg.SearxURL, "searx.url", "", "SearxNG base URL")
	fs.StringVar(&cfg.SearxKey, "searx.key", "", "SearxNG API key (optional)")
	fs.StringVar(&cfg.SearxUA, "searx.ua", app.DefaultSearxUA, "User-Agent for SearxNG requests")
	fs.StringVar(&cfg.FileSearchPath, "search.file", "", "JSON file for the offline search provider; takes precedence over SearxNG")
	fs.IntVar(&cfg.SearchLimit, "search.limit", app.DefaultSearchLimit, "Results requested from the search provider")
	fs.DurationVar(&cfg.SearchTimeout, "search.timeout", 0, "Timeout for outbound search and LLM calls (0 uses 30s)")
	fs.StringVar(&cfg.SearchLanguage, "search.lang", "", "SearxNG language code, e.g. en or fi (empty uses auto)")
	fs.StringVar(&cfg.QuerySuffix, "search.suffix", "", "Words appended to the fallback search query")
	fs.IntVar(&cfg.MaxResults, "max.results", app.DefaultMaxResults, "Maximum normalized search results used for keywords")
	fs.IntVar(&cfg.PerDomainCap, "max.perDomain", app.DefaultPerDomainCap, "Maximum results per domain")
	fs.IntVar(&cfg.SecondaryCap, "max.secondary", app.DefaultSecondaryCap, "Maximum secondary keywords")
	fs.IntVar(&cfg.MinExcerptChars, "min.excerptChars", 0, "Drop results whose excerpt is shorter (0 disables)")
	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL for the optional planner")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Planner model name; empty disables the LLM planner")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	fs.StringVar(&cfg.CacheDir, "cache.dir", app.DefaultCacheDir, "Cache directory path; empty disables caching")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries; 0 disables expiry")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory at startup")
	fs.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		return app.Config{}, fmt.Errorf("load env: %w", err)
	}

	explicit := cfg
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	reapplyFlags(&cfg, explicit, set)

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// reapplyFlags restores values given explicitly on the command line.
func reapplyFlags(cfg *app.Config, flags app.Config, set map[string]bool) {
	pick := map[string]func(){
		"addr":              func() { cfg.Addr = flags.Addr },
		"searx.url":         func() { cfg.SearxURL = flags.SearxURL },
		"searx.key":         func() { cfg.SearxKey = flags.SearxKey },
		"searx.ua":          func() { cfg.SearxUA = flags.SearxUA },
		"search.file":       func() { cfg.FileSearchPath = flags.FileSearchPath },
		"search.limit":      func() { cfg.SearchLimit = flags.SearchLimit },
		"search.timeout":    func() { cfg.SearchTimeout = flags.SearchTimeout },
		"search.lang":       func() { cfg.SearchLanguage = flags.SearchLanguage },
		"search.suffix":     func() { cfg.QuerySuffix = flags.QuerySuffix },
		"max.results":       func() { cfg.MaxResults = flags.MaxResults },
		"max.perDomain":     func() { cfg.PerDomainCap = flags.PerDomainCap },
		"max.secondary":     func() { cfg.SecondaryCap = flags.SecondaryCap },
		"min.excerptChars":  func() { cfg.MinExcerptChars = flags.MinExcerptChars },
		"llm.base":          func() { cfg.LLMBaseURL = flags.LLMBaseURL },
		"llm.model":         func() { cfg.LLMModel = flags.LLMModel },
		"llm.key":           func() { cfg.LLMAPIKey = flags.LLMAPIKey },
		"cache.dir":         func() { cfg.CacheDir = flags.CacheDir },
		"cache.maxAge":      func() { cfg.CacheMaxAge = flags.CacheMaxAge },
		"cache.clear":       func() { cfg.CacheClear = flags.CacheClear },
		"cache.strictPerms": func() { cfg.CacheStrictPerms = flags.CacheStrictPerms },
		"v":                 func() { cfg.Verbose = flags.Verbose },
	}
	for name := range set {
		if f, ok := pick[name]; ok {
			f()
		}
	}
}

func run(ctx context.Context, cfg app.Config) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serve(ctx, cfg, ln)
}

// serve runs the HTTP server on ln until ctx is cancelled, then drains
// in-flight requests.
func serve(ctx context.Context, cfg app.Config, ln net.Listener) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	srv, err := server.New(a, log.Logger, server.BuildInfo{Version: app.BuildVersion, Commit: app.BuildCommit}, 2*time.Minute)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Str("version", app.BuildVersion).Msg("listening")
		errc <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
