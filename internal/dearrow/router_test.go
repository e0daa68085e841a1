package dearrow

import "testing"

func TestHashPrefix(t *testing.T) {
	// Known SHA-256 prefixes for fixed ids.
	tests := []struct {
		videoID string
		want    string
	}{
		{"abc123", "6ca1"},
		{"dQw4w9WgXcQ", "5f6b"},
		{"jNQXAC9IVRw", "6745"},
		{"9bZkp7q19f0", "2691"},
	}

	for _, tt := range tests {
		if got := HashPrefix(tt.videoID); got != tt.want {
			t.Errorf("HashPrefix(%q) = %q, want %q", tt.videoID, got, tt.want)
		}
	}
}

func TestHashPrefixIsDeterministic(t *testing.T) {
	first := HashPrefix("dQw4w9WgXcQ")

	for i := 0; i < 10; i++ {
		if got := HashPrefix("dQw4w9WgXcQ"); got != first {
			t.Fatalf("HashPrefix() varies across calls: %q vs %q", got, first)
		}
	}

	if len(first) != hashPrefixLen {
		t.Errorf("HashPrefix() length = %d, want %d", len(first), hashPrefixLen)
	}
}

func TestBrandingURL(t *testing.T) {
	t.Run("joins base and prefix", func(t *testing.T) {
		got := BrandingURL("https://sponsor.ajay.app", "5f6b")
		want := "https://sponsor.ajay.app/api/branding/5f6b"

		if got != want {
			t.Errorf("BrandingURL() = %q, want %q", got, want)
		}
	})

	t.Run("tolerates trailing slash on base", func(t *testing.T) {
		got := BrandingURL("https://sponsor.ajay.app/", "5f6b")
		want := "https://sponsor.ajay.app/api/branding/5f6b"

		if got != want {
			t.Errorf("BrandingURL() = %q, want %q", got, want)
		}
	})
}
