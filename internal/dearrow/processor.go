package dearrow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ipvych/elfeed-dearrow/internal/platform/observability"
)

// Entry is the slice of a feed item the processor needs: the store
// owns the full record, the processor only borrows link and title for
// the duration of one lookup.
type Entry struct {
	ID    uuid.UUID
	Link  string
	Title string
}

// EntryUpdater commits a chosen title into an entry's title-override
// slot. This is the single mutation point of the whole flow.
type EntryUpdater interface {
	ApplyTitle(ctx context.Context, entryID uuid.UUID, title string) error
}

// RedisplayNotifier tells the owning UI collaborator to redraw an
// entry after its title changed.
type RedisplayNotifier interface {
	EntryChanged(entryID uuid.UUID)
}

// Processor runs the per-entry title replacement flow. Entries are
// processed independently; the only state shared between in-flight
// entries is the read-only configuration captured at construction.
type Processor struct {
	matcher  *LinkMatcher
	client   *BrandingClient
	fallback Normalizer
	updater  EntryUpdater
	notifier RedisplayNotifier
	logger   *zerolog.Logger
}

// NewProcessor wires the flow together. fallback may be Disabled{} (or
// any custom Normalizer); notifier may be nil when no UI is attached.
func NewProcessor(
	matcher *LinkMatcher,
	client *BrandingClient,
	fallback Normalizer,
	updater EntryUpdater,
	notifier RedisplayNotifier,
	logger *zerolog.Logger,
) *Processor {
	if fallback == nil {
		fallback = Disabled{}
	}

	return &Processor{
		matcher:  matcher,
		client:   client,
		fallback: fallback,
		updater:  updater,
		notifier: notifier,
		logger:   logger,
	}
}

// Process handles one newly observed entry. Ineligible links, missing
// video ids and transport failures are silent per-entry no-ops; only a
// failed title write is reported, since that means the store rejected
// the one mutation this flow performs.
func (p *Processor) Process(ctx context.Context, entry Entry) error {
	if !p.matcher.Eligible(entry.Link) {
		return nil
	}

	videoID, ok := ExtractVideoID(entry.Link)
	if !ok {
		p.logger.Debug().Str("link", entry.Link).Msg("eligible link without video id, skipping")
		return nil
	}

	res := <-p.client.Fetch(ctx, videoID)
	if res.Err != nil {
		p.logger.Debug().Err(res.Err).Str("video_id", videoID).Msg("branding lookup failed, leaving title unchanged")
		return nil
	}

	title, curated := CuratedTitle(res.StatusCode, res.Body, videoID)

	source := "curated"

	if !curated {
		title, ok = p.fallback.Rewrite(entry.Title)
		if !ok {
			return nil
		}

		source = "fallback"
	}

	if err := p.updater.ApplyTitle(ctx, entry.ID, title); err != nil {
		return fmt.Errorf("apply title: %w", err)
	}

	if p.notifier != nil {
		p.notifier.EntryChanged(entry.ID)
	}

	observability.TitlesUpdated.WithLabelValues(source).Inc()
	p.logger.Debug().
		Stringer("entry_id", entry.ID).
		Str("source", source).
		Str("title", title).
		Msg("entry title replaced")

	return nil
}
