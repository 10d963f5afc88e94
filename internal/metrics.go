package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faraday_dashboard",
		Name:      "sync_jobs_submitted_total",
		Help:      "Remote sync jobs accepted into the queue.",
	})

	syncFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faraday_dashboard",
		Name:      "sync_jobs_failed_total",
		Help:      "Remote sync jobs that exhausted retries or panicked.",
	})

	syncDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faraday_dashboard",
		Name:      "sync_jobs_dropped_total",
		Help:      "Remote sync jobs rejected because the queue was full.",
	})

	chatRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faraday_dashboard",
		Name:      "chat_requests_total",
		Help:      "Messages relayed to the assistant endpoint.",
	})

	chatFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faraday_dashboard",
		Name:      "chat_failures_total",
		Help:      "Assistant calls that ended in a synthetic error reply.",
	})
)
