package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GatewayRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paygate",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total state queries sent to the payment gateway, by outcome.",
	}, []string{"outcome"})

	GatewayRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "paygate",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Duration of state queries sent to the payment gateway.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"outcome"})

	ReconcileSessionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paygate",
		Subsystem: "reconcile",
		Name:      "sessions_total",
		Help:      "Watched sessions checked by the reconcile worker, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		GatewayRequestsTotal,
		GatewayRequestDuration,
		ReconcileSessionsTotal,
	)
}

// Gateway records connector exchanges. It satisfies platnosci.Observer.
type Gateway struct{}

func (Gateway) ObserveRequest(outcome string, elapsed time.Duration) {
	GatewayRequestsTotal.WithLabelValues(outcome).Inc()
	GatewayRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Reconciled counts one checked session.
func Reconciled(result string) {
	ReconcileSessionsTotal.WithLabelValues(result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
