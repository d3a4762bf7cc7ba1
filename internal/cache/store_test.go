package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStore_SaveGet(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	key := KeyFrom("searxng", "real estate marketing")
	data := []byte(`[{"title":"a","url":"https://a.example"}]`)
	if err := s.Save(context.Background(), key, data); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if string(got) != string(data) {
		t.Fatalf("mismatch: %s", got)
	}
}

func TestStore_MissForUnknownKey(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	if _, ok, err := s.Get(context.Background(), KeyFrom("nope")); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestStore_ExpiredEntryIsMiss(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Store{Dir: t.TempDir(), MaxAge: time.Hour, now: func() time.Time { return now }}
	key := KeyFrom("k")
	if err := s.Save(context.Background(), key, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, ok, _ := s.Get(context.Background(), key); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	if err := s.Save(context.Background(), KeyFrom("k"), []byte("not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}

func TestStore_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "strict")
	s := &Store{Dir: dir, StrictPerms: true}
	key := KeyFrom("model", "prompt")
	if err := s.Save(context.Background(), key, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	finfo, err := os.Stat(filepath.Join(dir, key+".json"))
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if got := finfo.Mode() & 0o777; got != 0o600 {
		t.Fatalf("file mode = %o, want 0600", got)
	}
}

func TestStore_NotConfigured(t *testing.T) {
	var s *Store
	if _, _, err := s.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestStore_ConcurrentSaveSameKey(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}
	key := KeyFrom("shared")
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Save(context.Background(), key, []byte(fmt.Sprintf(`{"writer":%d,"pad":"%0200d"}`, i, i)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent save: %v", err)
		}
	}
	got, ok, err := s.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get after concurrent saves: ok=%v err=%v", ok, err)
	}
	if !json.Valid(got) {
		t.Fatalf("entry corrupted: %s", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the committed entry, found %d files", len(entries))
	}
}
