package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.Addr, "ADDR")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	// SEARX_URL wins over SEARXNG_URL when both are set.
	setString(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setString(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")
	setString(&cfg.FileSearchPath, "SEARCH_FILE")
	setString(&cfg.SearchLanguage, "SEARCH_LANGUAGE")
	setString(&cfg.CacheDir, "CACHE_DIR")

	if maxN, perDomain, ok := parseCaps(os.Getenv("RESULT_CAPS")); ok {
		if cfg.MaxResults == 0 && maxN > 0 {
			cfg.MaxResults = maxN
		}
		if cfg.PerDomainCap == 0 && perDomain > 0 {
			cfg.PerDomainCap = perDomain
		}
	}
	if cfg.SecondaryCap == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("SECONDARY_KEYWORDS"))); err == nil && n > 0 {
			cfg.SecondaryCap = n
		}
	}
	if cfg.CacheMaxAge == 0 {
		if d, err := time.ParseDuration(os.Getenv("CACHE_MAX_AGE")); err == nil {
			cfg.CacheMaxAge = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if v, ok := parseBool(os.Getenv(envKey)); ok && v {
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}

// ApplyEnvOverrides overrides cfg fields whose environment variables are set.
// It lets env take precedence over a config file while flags stay highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Addr, "ADDR")
	override(&cfg.LLMBaseURL, "LLM_BASE_URL")
	override(&cfg.LLMModel, "LLM_MODEL")
	override(&cfg.LLMAPIKey, "LLM_API_KEY")
	override(&cfg.SearxURL, "SEARXNG_URL")
	override(&cfg.SearxURL, "SEARX_URL")
	override(&cfg.SearxKey, "SEARXNG_KEY")
	override(&cfg.SearxKey, "SEARX_KEY")
	override(&cfg.FileSearchPath, "SEARCH_FILE")
	override(&cfg.SearchLanguage, "SEARCH_LANGUAGE")
	override(&cfg.CacheDir, "CACHE_DIR")

	if maxN, perDomain, ok := parseCaps(os.Getenv("RESULT_CAPS")); ok {
		if maxN > 0 {
			cfg.MaxResults = maxN
		}
		if perDomain > 0 {
			cfg.PerDomainCap = perDomain
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("SECONDARY_KEYWORDS"))); err == nil && n > 0 {
		cfg.SecondaryCap = n
	}
	if d, err := time.ParseDuration(os.Getenv("CACHE_MAX_AGE")); err == nil {
		cfg.CacheMaxAge = d
	}

	setBool := func(dst *bool, envKey string) {
		if v, ok := parseBool(os.Getenv(envKey)); ok {
			*dst = v
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}

// parseCaps reads "<max>" or "<max>,<perDomain>". Unparsable parts are 0.
func parseCaps(s string) (maxN, perDomain int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	parts := strings.Split(s, ",")
	if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		maxN = n
	}
	if len(parts) >= 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			perDomain = n
		}
	}
	return maxN, perDomain, true
}

func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
