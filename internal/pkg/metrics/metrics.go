package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_search_requests_total",
		Help: "Total number of polygon search requests",
	})
	SearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "locsearch_search_duration_ms",
		Help:    "Polygon search duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	SearchResolution = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "locsearch_search_resolution",
		Help:    "Tiling resolution selected for polygon searches",
		Buckets: prometheus.LinearBuckets(0, 1, 15),
	})
	CandidateRowsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_candidate_rows_scanned_total",
		Help: "Index rows read from the token index before post-filtering",
	})
	PostFilterSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_postfilter_skipped_total",
		Help: "Candidates discarded by the point-in-polygon post-filter",
	})
	CellSetTruncatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_cell_set_truncated_total",
		Help: "Searches whose candidate cell set was truncated",
	})
	SearchCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_search_cache_hits_total",
		Help: "Search responses served from redis",
	})
	SearchCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_search_cache_misses_total",
		Help: "Search responses computed because redis had no entry",
	})
	IngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_ingested_total",
		Help: "Locations ingested",
	})
	IngestRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locsearch_ingest_rejected_total",
		Help: "Rows rejected at ingestion by error code",
	}, []string{"code"})
	ReindexPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_reindex_pages_total",
		Help: "Reindex pages processed",
	})
	ReindexRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_reindex_rows_total",
		Help: "Index rows written by the reindex job",
	})
	ReindexFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locsearch_reindex_failures_total",
		Help: "Reindex steps that halted the job",
	})
)

func init() {
	prometheus.MustRegister(
		SearchRequestsTotal,
		SearchDurationMs,
		SearchResolution,
		CandidateRowsScanned,
		PostFilterSkippedTotal,
		CellSetTruncatedTotal,
		SearchCacheHitsTotal,
		SearchCacheMissesTotal,
		IngestedTotal,
		IngestRejectedTotal,
		ReindexPagesTotal,
		ReindexRowsTotal,
		ReindexFailuresTotal,
	)
}

// Handler - обработчик /metrics для Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
