package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"
)

// ResultStore is the byte store used by Cached. cache.Store satisfies it.
type ResultStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Cached wraps a Provider and memoizes successful responses by provider name,
// query and limit. Errors are never cached.
type Cached struct {
	Provider Provider
	Store    ResultStore
	// Scope separates entries for the same query, e.g. per search language.
	Scope string
}

func (c *Cached) Name() string { return c.Provider.Name() }

func (c *Cached) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if c.Store == nil {
		return c.Provider.Search(ctx, query, limit)
	}
	key := resultKey(c.Provider.Name(), c.Scope, query, limit)
	if raw, ok, err := c.Store.Get(ctx, key); err == nil && ok {
		var cached []Result
		if err := json.Unmarshal(raw, &cached); err == nil {
			log.Debug().Str("query", query).Int("results", len(cached)).Msg("search cache hit")
			return cached, nil
		}
	}
	results, err := c.Provider.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(results); err == nil {
		if err := c.Store.Save(ctx, key, data); err != nil {
			log.Warn().Err(err).Msg("search cache save failed")
		}
	}
	return results, nil
}

func resultKey(provider, scope, query string, limit int) string {
	if scope != "" {
		provider += "/" + scope
	}
	h := sha256.Sum256([]byte("search\n" + provider + "\n" + strconv.Itoa(limit) + "\n" + query))
	return hex.EncodeToString(h[:])
}
