// Package metrics exports translation cache activity to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZaguanLabs/teamtl"
)

// Collector implements teamtl.Metrics.
type Collector struct {
	Lookups         *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
}

// New creates a Collector and registers it with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamtl",
			Name:      "lookups_total",
			Help:      "Translation lookups by target language and outcome",
		}, []string{"language", "outcome"}),

		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "teamtl",
			Name:      "provider_latency_seconds",
			Help:      "Translation provider call latency by target language",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2.0, 10),
		}, []string{"language"}),

		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamtl",
			Name:      "provider_errors_total",
			Help:      "Failed translation provider calls by target language",
		}, []string{"language"}),
	}

	reg.MustRegister(c.Lookups, c.ProviderLatency, c.ProviderErrors)
	return c
}

func (c *Collector) ObserveLookup(targetLang string, outcome teamtl.Outcome) {
	c.Lookups.WithLabelValues(targetLang, string(outcome)).Inc()
}

func (c *Collector) ObserveProvider(targetLang string, elapsed time.Duration, err error) {
	c.ProviderLatency.WithLabelValues(targetLang).Observe(elapsed.Seconds())
	if err != nil {
		c.ProviderErrors.WithLabelValues(targetLang).Inc()
	}
}

var _ teamtl.Metrics = (*Collector)(nil)
