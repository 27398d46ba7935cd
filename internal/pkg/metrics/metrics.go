// Package metrics holds the process-wide Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "request_reviews_total",
		Help:      "Review decisions recorded, by request kind and decision.",
	}, []string{"kind", "decision"})

	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "requests_created_total",
		Help:      "Requests submitted, by kind and whether they exceeded the cycle limit.",
	}, []string{"kind", "exceeded"})

	CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "cron_runs_total",
		Help:      "Scheduled job runs, by job name and outcome.",
	}, []string{"job", "outcome"})

	CronDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workforce",
		Name:      "cron_run_duration_seconds",
		Help:      "Duration of scheduled job runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	UsersBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "users_auto_blocked_total",
		Help:      "Users blocked by the absence check.",
	})
)

// Outcome labels for CronRuns.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
