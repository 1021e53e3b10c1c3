// Package services – Prometheus instrumentation
//
// Domain-level collectors for the catalog core. HTTP traffic metrics live in
// the middleware package; the collectors here count what the core actually
// does: ingestion outcomes, duplicate merges, invariant repairs, backfill
// progress, and cache rebuilds. Label cardinality is a small fixed set of
// outcome strings.
package services

import "github.com/prometheus/client_golang/prometheus"

// Ingestion outcome label values.
const (
	outcomeCreated      = "created"
	outcomeDeduplicated = "deduplicated"
	outcomeReplayed     = "replayed"
	outcomeRejected     = "rejected"
)

var (
	// ingestTotal counts ingestion requests by outcome.
	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ingest_records_total",
			Help: "Total ingestion requests by outcome.",
		},
		[]string{"outcome"},
	)

	// dedupMerges counts records redirected to a canonical survivor.
	dedupMerges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_dedup_merges_total",
			Help: "Total records redirected to a canonical survivor.",
		},
	)

	// chainsFlattened counts canonical chains repaired by the resolver.
	chainsFlattened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_canonical_chains_flattened_total",
			Help: "Total canonical chains detected and flattened.",
		},
	)

	// backfillResolved counts unresolved records assigned a tenant.
	backfillResolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_backfill_resolved_total",
			Help: "Total records whose tenant was resolved by backfill.",
		},
	)

	// cacheRebuildDuration times full and scoped cache recomputes.
	cacheRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_cache_rebuild_duration_seconds",
			Help:    "Duration of access cache rebuilds in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// cacheEntries gauges the size of the served snapshot.
	cacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_access_cache_entries",
			Help: "Number of (tenant, source) pairs in the served cache snapshot.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ingestTotal,
		dedupMerges,
		chainsFlattened,
		backfillResolved,
		cacheRebuildDuration,
		cacheEntries,
	)
}
