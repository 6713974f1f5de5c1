package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline
type Metrics struct {
	ValidationRequests prometheus.Counter
	ExtractionRequests prometheus.Counter
	AuthAttempts       prometheus.Counter
	NetworkErrors      prometheus.Counter
	CapturesCompleted  prometheus.Counter
}

// New creates all pipeline metrics and registers them with reg. Tests pass a
// fresh registry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ValidationRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "scandoc_validation_requests_total",
			Help: "Total number of frame validation requests issued",
		}),
		ExtractionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "scandoc_extraction_requests_total",
			Help: "Total number of extraction requests issued",
		}),
		AuthAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "scandoc_auth_attempts_total",
			Help: "Total number of full authentication attempts",
		}),
		NetworkErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "scandoc_network_errors_total",
			Help: "Total number of failed requests surfaced as events",
		}),
		CapturesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "scandoc_captures_completed_total",
			Help: "Total number of confirmed capture sets",
		}),
	}
}
