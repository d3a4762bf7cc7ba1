package app

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClient_Config(t *testing.T) {
	c := newHTTPClient(0)
	if c.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport")
	}
	if tr == http.DefaultTransport {
		t.Fatalf("transport should not be the default transport")
	}
	if tr.MaxIdleConnsPerHost < 100 {
		t.Fatalf("expected a large idle pool per host, got %d", tr.MaxIdleConnsPerHost)
	}
	if got := newHTTPClient(2 * time.Second).Timeout; got != 2*time.Second {
		t.Fatalf("timeout = %v, want 2s", got)
	}
}
