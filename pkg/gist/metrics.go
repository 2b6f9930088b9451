package gist

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opAuthenticate = "authenticate"
	opFetch        = "fetch"
	opReplace      = "replace"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripspend",
			Subsystem: "gist",
			Name:      "requests_total",
			Help:      "GitHub API calls made for the expense gist, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripspend",
			Subsystem: "gist",
			Name:      "request_duration_seconds",
			Help:      "Duration of GitHub API calls made for the expense gist.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
