package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/dearrow")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIBaseURL != "https://sponsor.ajay.app" {
		t.Errorf("APIBaseURL = %q, want default instance", cfg.APIBaseURL)
	}

	if cfg.LinkPattern != "" {
		t.Errorf("LinkPattern = %q, want empty (package default)", cfg.LinkPattern)
	}

	if !cfg.FallbackEnabled {
		t.Error("FallbackEnabled = false, want true by default")
	}

	if cfg.FeedPollInterval != 5*time.Minute {
		t.Errorf("FeedPollInterval = %v, want 5m", cfg.FeedPollInterval)
	}

	if cfg.WebFetchTimeout != 30*time.Second {
		t.Errorf("WebFetchTimeout = %v, want 30s", cfg.WebFetchTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/dearrow")
	t.Setenv("DEARROW_API_BASE_URL", "https://dearrow.internal.example")
	t.Setenv("DEARROW_LINK_PATTERN", `^https://piped\.example\.org/watch`)
	t.Setenv("DEARROW_FALLBACK_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIBaseURL != "https://dearrow.internal.example" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}

	if cfg.LinkPattern != `^https://piped\.example\.org/watch` {
		t.Errorf("LinkPattern = %q", cfg.LinkPattern)
	}

	if cfg.FallbackEnabled {
		t.Error("FallbackEnabled = true, want false")
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not
	// merely empty, for `required` to trip.
	t.Setenv("POSTGRES_DSN", "")
	_ = os.Unsetenv("POSTGRES_DSN")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want missing POSTGRES_DSN error")
	}
}

func TestParseFeedList(t *testing.T) {
	content := "# subscriptions\nhttps://example.com/feed.xml\n\n  https://other.example/rss  \n# comment\n"

	got := parseFeedList(content)

	want := []string{"https://example.com/feed.xml", "https://other.example/rss"}
	if len(got) != len(want) {
		t.Fatalf("parseFeedList() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseFeedList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadFeedsMissingFile(t *testing.T) {
	cfg := &Config{FeedsFile: filepath.Join(t.TempDir(), "absent.txt")}

	urls, err := cfg.LoadFeeds()
	if err != nil {
		t.Fatalf("LoadFeeds() error = %v", err)
	}

	if urls != nil {
		t.Errorf("LoadFeeds() = %v, want nil for a missing file", urls)
	}
}
