package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ipvych/elfeed-dearrow/internal/dearrow"
	"github.com/ipvych/elfeed-dearrow/internal/feeds"
	"github.com/ipvych/elfeed-dearrow/internal/platform/config"
	"github.com/ipvych/elfeed-dearrow/internal/platform/observability"
	"github.com/ipvych/elfeed-dearrow/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setLogLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	store, err := storage.New(ctx, cfg.PostgresDSN, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	if err := seedFeeds(ctx, cfg, store, &logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed feed subscriptions")
	}

	processor, err := buildProcessor(cfg, store, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build title processor")
	}

	healthServer := observability.NewServer(store, cfg.HealthPort, &logger)

	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Health server error")
		}
	}()

	poller := feeds.NewPoller(store, processor, feeds.Config{
		PollInterval: cfg.FeedPollInterval,
		FetchTimeout: cfg.FeedFetchTimeout,
	}, &logger)

	logger.Info().Str("api", cfg.APIBaseURL).Msg("Starting feed poller")

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Feed poller error")
	}

	logger.Info().Msg("Stopped")
}

func buildProcessor(cfg *config.Config, store *storage.Store, logger *zerolog.Logger) (*dearrow.Processor, error) {
	matcher, err := dearrow.NewLinkMatcher(cfg.LinkPattern)
	if err != nil {
		return nil, err
	}

	client := dearrow.NewBrandingClient(dearrow.BrandingClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.WebFetchTimeout,
		RPS:     cfg.WebFetchRPS,
	})

	var fallback dearrow.Normalizer = dearrow.Disabled{}
	if cfg.FallbackEnabled {
		fallback = dearrow.Declickbait{}
	}

	return dearrow.NewProcessor(matcher, client, fallback, store, redisplayLogger{logger}, logger), nil
}

func seedFeeds(ctx context.Context, cfg *config.Config, store *storage.Store, logger *zerolog.Logger) error {
	urls, err := cfg.LoadFeeds()
	if err != nil {
		return err
	}

	for _, u := range urls {
		if _, err := store.UpsertFeed(ctx, u); err != nil {
			return err
		}

		logger.Info().Str("feed", u).Msg("Subscribed feed")
	}

	return nil
}

// redisplayLogger stands in for the UI collaborator: the redraw signal
// is logged so an attached front-end can be wired in its place.
type redisplayLogger struct {
	logger *zerolog.Logger
}

func (r redisplayLogger) EntryChanged(entryID uuid.UUID) {
	r.logger.Info().Stringer("entry_id", entryID).Msg("entry updated, redisplay requested")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
