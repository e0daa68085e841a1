// Package feeds polls subscribed RSS/Atom feeds and hands every newly
// observed entry to the title processor exactly once.
package feeds

import (
	"context"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/ipvych/elfeed-dearrow/internal/dearrow"
	"github.com/ipvych/elfeed-dearrow/internal/platform/observability"
	"github.com/ipvych/elfeed-dearrow/internal/platform/worker"
	"github.com/ipvych/elfeed-dearrow/internal/storage"
)

// Store is the slice of the storage layer the poller needs.
type Store interface {
	ListFeeds(ctx context.Context) ([]storage.Feed, error)
	SetFeedTitle(ctx context.Context, feedID uuid.UUID, title string) error
	InsertEntry(ctx context.Context, e storage.Entry) (bool, error)
}

// Processor handles one newly observed entry.
type Processor interface {
	Process(ctx context.Context, entry dearrow.Entry) error
}

// Poller fetches all subscribed feeds on an interval. Entries are
// deduplicated by the store; processing of new entries is dispatched
// per entry and is not waited on, so slow branding lookups never block
// the next poll.
type Poller struct {
	store        Store
	processor    Processor
	parser       *gofeed.Parser
	pollInterval time.Duration
	fetchTimeout time.Duration
	logger       *zerolog.Logger
}

type Config struct {
	PollInterval time.Duration
	FetchTimeout time.Duration
}

func NewPoller(store Store, processor Processor, cfg Config, logger *zerolog.Logger) *Poller {
	return &Poller{
		store:        store,
		processor:    processor,
		parser:       gofeed.NewParser(),
		pollInterval: cfg.PollInterval,
		fetchTimeout: cfg.FetchTimeout,
		logger:       logger,
	}
}

// Run polls until the context is canceled.
func (p *Poller) Run(ctx context.Context) error {
	return worker.Loop(ctx, worker.Config{
		Name:         "feed-poller",
		PollInterval: p.pollInterval,
		Process:      p.pollOnce,
		Logger:       p.logger,
	})
}

func (p *Poller) pollOnce(ctx context.Context) error {
	feeds, err := p.store.ListFeeds(ctx)
	if err != nil {
		return err
	}

	for _, feed := range feeds {
		p.pollFeed(ctx, feed)
	}

	return nil
}

// pollFeed fetches one feed and ingests its items. A failing feed is
// logged and counted but never stops the poll of the remaining feeds.
func (p *Poller) pollFeed(ctx context.Context, feed storage.Feed) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	parsed, err := p.parser.ParseURLWithContext(feed.URL, fetchCtx)
	if err != nil {
		observability.FeedPollErrors.WithLabelValues(feed.URL).Inc()
		p.logger.Warn().Err(err).Str("feed", feed.URL).Msg("feed fetch failed")

		return
	}

	if parsed.Title != "" && parsed.Title != feed.Title {
		if err := p.store.SetFeedTitle(ctx, feed.ID, parsed.Title); err != nil {
			p.logger.Warn().Err(err).Str("feed", feed.URL).Msg("feed title update failed")
		}
	}

	for _, item := range parsed.Items {
		p.ingestItem(ctx, feed, item)
	}
}

func (p *Poller) ingestItem(ctx context.Context, feed storage.Feed, item *gofeed.Item) {
	if item.Link == "" {
		return
	}

	guid := item.GUID
	if guid == "" {
		guid = item.Link
	}

	entry := storage.Entry{
		ID:          uuid.New(),
		FeedID:      feed.ID,
		GUID:        guid,
		Link:        item.Link,
		Title:       item.Title,
		PublishedAt: publishedAt(item),
	}

	inserted, err := p.store.InsertEntry(ctx, entry)
	if err != nil {
		p.logger.Warn().Err(err).Str("feed", feed.URL).Str("guid", guid).Msg("entry insert failed")
		return
	}

	if !inserted {
		return
	}

	observability.EntriesIngested.WithLabelValues(feed.URL).Inc()

	// One dispatch per new entry; in-flight entries share no state, so
	// they can overlap freely.
	go func() {
		if err := p.processor.Process(ctx, dearrow.Entry{
			ID:    entry.ID,
			Link:  entry.Link,
			Title: entry.Title,
		}); err != nil {
			p.logger.Warn().Err(err).Stringer("entry_id", entry.ID).Msg("entry processing failed")
		}
	}()
}

// publishedAt prefers the parsed timestamp, falling back to a lenient
// parse of the raw field since feeds disagree wildly on date formats.
func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}

	if item.Published == "" {
		return nil
	}

	t, err := dateparse.ParseAny(item.Published)
	if err != nil {
		return nil
	}

	return &t
}
