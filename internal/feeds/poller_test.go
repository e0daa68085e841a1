package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ipvych/elfeed-dearrow/internal/dearrow"
	"github.com/ipvych/elfeed-dearrow/internal/storage"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Example Channel</title>
<item>
  <title>FIRST VIDEO!!</title>
  <link>https://www.youtube.com/watch?v=abc123</link>
  <guid>yt:video:abc123</guid>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Second video</title>
  <link>https://www.youtube.com/watch?v=def456</link>
  <guid>yt:video:def456</guid>
</item>
</channel></rss>`

type fakeStore struct {
	mu        sync.Mutex
	feeds     []storage.Feed
	seen      map[string]bool
	feedTitle string
}

func newFakeStore(feedURL string) *fakeStore {
	return &fakeStore{
		feeds: []storage.Feed{{ID: uuid.New(), URL: feedURL}},
		seen:  make(map[string]bool),
	}
}

func (s *fakeStore) ListFeeds(context.Context) ([]storage.Feed, error) {
	return s.feeds, nil
}

func (s *fakeStore) SetFeedTitle(_ context.Context, _ uuid.UUID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedTitle = title

	return nil
}

func (s *fakeStore) InsertEntry(_ context.Context, e storage.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[e.GUID] {
		return false, nil
	}

	s.seen[e.GUID] = true

	return true, nil
}

type fakeProcessor struct {
	entries chan dearrow.Entry
}

func (p *fakeProcessor) Process(_ context.Context, entry dearrow.Entry) error {
	p.entries <- entry
	return nil
}

func collectEntries(t *testing.T, ch chan dearrow.Entry, n int) []dearrow.Entry {
	t.Helper()

	var entries []dearrow.Entry

	for len(entries) < n {
		select {
		case e := <-ch:
			entries = append(entries, e)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for entries, got %d of %d", len(entries), n)
		}
	}

	return entries
}

func TestPollOnceIngestsNewEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")

		if _, err := w.Write([]byte(testRSS)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	store := newFakeStore(srv.URL)
	processor := &fakeProcessor{entries: make(chan dearrow.Entry, 8)}
	logger := zerolog.Nop()

	poller := NewPoller(store, processor, Config{
		PollInterval: time.Minute,
		FetchTimeout: 5 * time.Second,
	}, &logger)

	require.NoError(t, poller.pollOnce(context.Background()))

	entries := collectEntries(t, processor.entries, 2)

	links := map[string]string{}
	for _, e := range entries {
		links[e.Link] = e.Title
	}

	require.Equal(t, "FIRST VIDEO!!", links["https://www.youtube.com/watch?v=abc123"])
	require.Equal(t, "Second video", links["https://www.youtube.com/watch?v=def456"])
	require.Equal(t, "Example Channel", store.feedTitle)
}

func TestPollOnceProcessesEachEntryOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(testRSS)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	store := newFakeStore(srv.URL)
	processor := &fakeProcessor{entries: make(chan dearrow.Entry, 8)}
	logger := zerolog.Nop()

	poller := NewPoller(store, processor, Config{
		PollInterval: time.Minute,
		FetchTimeout: 5 * time.Second,
	}, &logger)

	require.NoError(t, poller.pollOnce(context.Background()))
	collectEntries(t, processor.entries, 2)

	// Second poll sees only known guids; nothing is reprocessed.
	require.NoError(t, poller.pollOnce(context.Background()))

	select {
	case e := <-processor.entries:
		t.Fatalf("entry %s processed twice", e.Link)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPollOnceSurvivesFeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := newFakeStore(srv.URL)
	processor := &fakeProcessor{entries: make(chan dearrow.Entry, 8)}
	logger := zerolog.Nop()

	poller := NewPoller(store, processor, Config{
		PollInterval: time.Minute,
		FetchTimeout: 5 * time.Second,
	}, &logger)

	// A failing feed is logged and skipped, never an error for the loop.
	require.NoError(t, poller.pollOnce(context.Background()))
}
