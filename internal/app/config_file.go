package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema, YAML or JSON.
type FileConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
		UA  string `yaml:"ua" json:"ua"`
	} `yaml:"searx" json:"searx"`

	Search struct {
		File     string        `yaml:"file" json:"file"`
		Limit    int           `yaml:"limit" json:"limit"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout"`
		Suffix   string        `yaml:"suffix" json:"suffix"`
		Language string        `yaml:"language" json:"language"`
	} `yaml:"search" json:"search"`

	Max struct {
		Results   int `yaml:"results" json:"results"`
		PerDomain int `yaml:"perDomain" json:"perDomain"`
		Secondary int `yaml:"secondary" json:"secondary"`
	} `yaml:"max" json:"max"`

	Min struct {
		ExcerptChars int `yaml:"excerptChars" json:"excerptChars"`
	} `yaml:"min" json:"min"`

	Verbose bool `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig, choosing by extension
// and trying both for anything else.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills cfg fields that are unset or still at their flag
// default from fc. Explicit flags are preserved.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, def, v string) {
		if (*dst == "" || *dst == def) && v != "" {
			*dst = v
		}
	}
	num := func(dst *int, def, v int) {
		if (*dst == 0 || *dst == def) && v > 0 {
			*dst = v
		}
	}
	str(&cfg.Addr, DefaultAddr, fc.Addr)
	str(&cfg.LLMBaseURL, "", fc.LLM.BaseURL)
	str(&cfg.LLMModel, "", fc.LLM.Model)
	str(&cfg.LLMAPIKey, "", fc.LLM.APIKey)
	str(&cfg.SearxURL, "", fc.Searx.URL)
	str(&cfg.SearxKey, "", fc.Searx.Key)
	str(&cfg.SearxUA, DefaultSearxUA, fc.Searx.UA)
	str(&cfg.FileSearchPath, "", fc.Search.File)
	str(&cfg.QuerySuffix, "", fc.Search.Suffix)
	str(&cfg.SearchLanguage, "", fc.Search.Language)
	str(&cfg.CacheDir, DefaultCacheDir, fc.Cache.Dir)

	num(&cfg.SearchLimit, DefaultSearchLimit, fc.Search.Limit)
	num(&cfg.MaxResults, DefaultMaxResults, fc.Max.Results)
	num(&cfg.PerDomainCap, DefaultPerDomainCap, fc.Max.PerDomain)
	num(&cfg.SecondaryCap, DefaultSecondaryCap, fc.Max.Secondary)
	num(&cfg.MinExcerptChars, 0, fc.Min.ExcerptChars)

	if cfg.SearchTimeout == 0 && fc.Search.Timeout > 0 {
		cfg.SearchTimeout = fc.Search.Timeout
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	cfg.Verbose = cfg.Verbose || fc.Verbose
	cfg.CacheClear = cfg.CacheClear || fc.Cache.Clear
	cfg.CacheStrictPerms = cfg.CacheStrictPerms || fc.Cache.StrictPerms
}

// ValidateConfig rejects settings the server cannot start with.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return errors.New("config: listen address is required")
	}
	if cfg.SearchLimit < 0 || cfg.MaxResults < 0 || cfg.PerDomainCap < 0 || cfg.SecondaryCap < 0 || cfg.MinExcerptChars < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.CacheMaxAge < 0 || cfg.SearchTimeout < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if (cfg.LLMBaseURL != "" || cfg.LLMAPIKey != "") && strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required when an LLM endpoint is configured (or set LLM_MODEL)")
	}
	return nil
}
