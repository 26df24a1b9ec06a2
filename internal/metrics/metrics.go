// Package metrics provides Prometheus metrics for amanecer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "amanecer"

var (
	// PipelineRunsTotal counts daily pipeline runs by terminal state.
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of daily pipeline runs by outcome",
		},
		[]string{"state"},
	)

	// PipelineDuration measures pipeline run duration.
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of daily pipeline runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// GenerationsTotal counts generated phrases by source (ai or fallback).
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of generated phrases by source",
		},
		[]string{"source"},
	)

	// FallbacksTotal counts fallback phrases by reason.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Total number of fallback phrases by reason",
		},
		[]string{"reason"},
	)

	// LastSuccessTimestamp is the unix time of the last run that left a phrase in place.
	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful or skipped pipeline run",
		},
	)

	// HTTPRequestsTotal counts read API requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of read API requests",
		},
		[]string{"route", "status"},
	)
)

// RecordPipelineRun records the outcome of a pipeline run.
func RecordPipelineRun(state string, seconds float64, ok bool, unixNow float64) {
	PipelineRunsTotal.WithLabelValues(state).Inc()
	PipelineDuration.Observe(seconds)
	if ok {
		LastSuccessTimestamp.Set(unixNow)
	}
}

// RecordGeneration records where a phrase came from.
func RecordGeneration(isAI bool, fallbackReason string) {
	if isAI {
		GenerationsTotal.WithLabelValues("ai").Inc()
		return
	}
	GenerationsTotal.WithLabelValues("fallback").Inc()
	FallbacksTotal.WithLabelValues(fallbackReason).Inc()
}
