// Package metrics provides Prometheus metrics for the Laurel service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupsTotal tracks directory lookups by query mode and outcome
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laurel",
			Subsystem: "directory",
			Name:      "lookups_total",
			Help:      "Total number of directory lookups by query mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// LookupDuration tracks directory lookup duration in seconds
	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "laurel",
			Subsystem: "directory",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of directory lookups in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	// ActivitiesCreatedTotal tracks activity inserts by outcome
	ActivitiesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laurel",
			Subsystem: "taxonomy",
			Name:      "activities_created_total",
			Help:      "Total number of activity inserts by outcome",
		},
		[]string{"outcome"},
	)

	// SeedRecordsTotal tracks rows created by seed-data generation
	SeedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laurel",
			Subsystem: "seed",
			Name:      "records_total",
			Help:      "Total number of rows created by seed-data generation",
		},
		[]string{"entity"},
	)

	// EventsPublishedTotal tracks lifecycle events published to Kafka
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laurel",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of lifecycle events published by event type and outcome",
		},
		[]string{"event_type", "outcome"},
	)
)
