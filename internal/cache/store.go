package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entry is the on-disk envelope for a cached payload.
type entry struct {
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// Store keeps JSON payloads on disk as <key>.json. Keys are produced by
// KeyFrom. Entries older than MaxAge are treated as misses; zero disables
// expiry. There is no size-based eviction, use PurgeByAge for that.
type Store struct {
	Dir string
	// StrictPerms enforces 0700 on the directory and 0600 on files.
	StrictPerms bool
	MaxAge      time.Duration

	now func() time.Time
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Store) ensureDir() error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if s.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(s.Dir, perm); err != nil {
		return err
	}
	if s.StrictPerms {
		if info, err := os.Stat(s.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(s.Dir, 0o700)
		}
	}
	return nil
}

// KeyFrom builds a stable cache key from its parts.
func KeyFrom(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\n\n")))
	return hex.EncodeToString(h[:])
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// Get returns the cached payload for key. A missing, unreadable or expired
// entry is reported as a miss without error.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := s.ensureDir(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		return nil, false, nil
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, false, nil
	}
	if s.MaxAge > 0 && s.clock().Sub(e.SavedAt) > s.MaxAge {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Save writes data under key. data must be valid JSON.
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("cache: payload for %s is not valid JSON", key)
	}
	b, err := json.Marshal(entry{SavedAt: s.clock().UTC(), Data: data})
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if s.StrictPerms {
		mode = 0o600
	}
	// Each writer gets its own temp file so concurrent saves of one key
	// never share a path; the last rename wins.
	f, err := os.CreateTemp(s.Dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmp := f.Name()
	_, werr := f.Write(b)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmp, mode)
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache entry: %w", werr)
	}
	if err := os.Rename(tmp, s.pathFor(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}
