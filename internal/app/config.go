package app

import "time"

// Defaults applied by the CLI flags and by ApplyFileConfig when a value is
// still at its flag default.
const (
	DefaultAddr         = ":8080"
	DefaultSearxUA      = "goarticle/1.0 (+https://github.com/hyperifyio/goarticle)"
	DefaultSearchLimit  = 10
	DefaultMaxResults   = 10
	DefaultPerDomainCap = 3
	DefaultSecondaryCap = 12
	DefaultCacheDir     = ".goarticle-cache"
)

// Config holds runtime configuration for the server.
type Config struct {
	Addr string

	// Search
	SearxURL       string
	SearxKey       string
	SearxUA        string
	FileSearchPath string
	SearchLimit    int
	SearchTimeout  time.Duration
	// SearchLanguage is passed to SearxNG as the language parameter.
	SearchLanguage string

	// Result normalization and keywords
	MaxResults      int
	PerDomainCap    int
	MinExcerptChars int
	SecondaryCap    int
	QuerySuffix     string

	// LLM planner, optional
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}
