// Package metrics holds the prometheus collectors for repositories and HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-docstore-repo/internal/errs"
)

type Repo struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewRepo(reg prometheus.Registerer) *Repo {
	m := &Repo{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "repository_operations_total", Help: "Count of repository operations"},
			[]string{"entity", "op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "repository_operation_duration_seconds",
				Help:    "Latency of repository operations",
				Buckets: prometheus.DefBuckets,
			}, []string{"entity", "op"},
		),
	}
	reg.MustRegister(m.ops, m.duration)
	return m
}

// Observe records one finished operation. A nil *Repo records nothing.
func (m *Repo) Observe(entity, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(entity, op, Outcome(err)).Inc()
	m.duration.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.IsInvalidState(err):
		return "invalid_state"
	case errs.IsMapping(err):
		return "mapping"
	case errs.IsTechnical(err):
		return "technical"
	default:
		return "error"
	}
}

type HTTP struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"path", "method", "status"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			}, []string{"path", "method"},
		),
	}
	reg.MustRegister(m.Requests, m.Latency)
	return m
}
