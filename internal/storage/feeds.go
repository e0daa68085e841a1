package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Feed is a subscribed source of entries.
type Feed struct {
	ID      uuid.UUID
	URL     string
	Title   string
	AddedAt time.Time
}

// Entry is one feed item. TitleOverride is the mutable slot the
// dearrow flow writes into; the original title is never touched.
type Entry struct {
	ID            uuid.UUID
	FeedID        uuid.UUID
	GUID          string
	Link          string
	Title         string
	TitleOverride *string
	PublishedAt   *time.Time
	CreatedAt     time.Time
}

// UpsertFeed subscribes a feed URL, returning the feed id whether it
// was inserted now or already present.
func (s *Store) UpsertFeed(ctx context.Context, url string) (uuid.UUID, error) {
	id := uuid.New()

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO feeds (id, url)
		VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET url = EXCLUDED.url
		RETURNING id`,
		id, url,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert feed: %w", err)
	}

	return id, nil
}

// SetFeedTitle records the self-reported feed title.
func (s *Store) SetFeedTitle(ctx context.Context, feedID uuid.UUID, title string) error {
	if _, err := s.Pool.Exec(ctx, `UPDATE feeds SET title = $2 WHERE id = $1`, feedID, title); err != nil {
		return fmt.Errorf("set feed title: %w", err)
	}

	return nil
}

// ListFeeds returns all subscribed feeds.
func (s *Store) ListFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, url, title, added_at FROM feeds ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}

	defer rows.Close()

	var feeds []Feed

	for rows.Next() {
		var f Feed
		if err := rows.Scan(&f.ID, &f.URL, &f.Title, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scan feed: %w", err)
		}

		feeds = append(feeds, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feeds: %w", err)
	}

	return feeds, nil
}

// InsertEntry stores a newly observed entry. Entries are deduplicated
// by (feed_id, guid); the returned flag reports whether this call
// actually inserted the row, so the caller triggers title processing
// exactly once per new entry.
func (s *Store) InsertEntry(ctx context.Context, e Entry) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO entries (id, feed_id, guid, link, title, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (feed_id, guid) DO NOTHING`,
		e.ID, e.FeedID, e.GUID, e.Link, e.Title, e.PublishedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert entry: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetEntry fetches one entry by id.
func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	var e Entry

	err := s.Pool.QueryRow(ctx, `
		SELECT id, feed_id, guid, link, title, title_override, published_at, created_at
		FROM entries WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.FeedID, &e.GUID, &e.Link, &e.Title, &e.TitleOverride, &e.PublishedAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &e, nil
}

// ApplyTitle writes the chosen title into the entry's override slot.
// A single-column update by id: a late write for an entry that was
// already updated again simply loses, which is the intended
// last-write-wins behavior for duplicate submissions.
func (s *Store) ApplyTitle(ctx context.Context, entryID uuid.UUID, title string) error {
	if _, err := s.Pool.Exec(ctx, `UPDATE entries SET title_override = $2 WHERE id = $1`, entryID, title); err != nil {
		return fmt.Errorf("apply title override: %w", err)
	}

	return nil
}
