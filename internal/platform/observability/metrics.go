package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntriesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dearrow_entries_ingested_total",
		Help: "The total number of feed entries ingested",
	}, []string{"feed"})

	BrandingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dearrow_branding_requests_total",
		Help: "The total number of branding API requests by outcome",
	}, []string{"status"})

	BrandingRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dearrow_branding_request_duration_seconds",
		Help:    "Duration of branding API requests",
		Buckets: prometheus.DefBuckets,
	})

	TitlesUpdated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dearrow_titles_updated_total",
		Help: "The total number of entry titles replaced, by title source",
	}, []string{"source"})

	FeedPollErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dearrow_feed_poll_errors_total",
		Help: "The total number of feed poll failures",
	}, []string{"feed"})
)
