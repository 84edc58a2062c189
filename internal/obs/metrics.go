package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var authOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_operations_total",
		Help: "Authentication operations by type and outcome.",
	},
	[]string{"operation", "result"},
)

// ObserveAuth records the outcome of an authentication operation.
// operation is one of register/login/refresh/logout; result is
// "success" or "failure".
func ObserveAuth(operation string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	authOperations.WithLabelValues(operation, result).Inc()
}

// MetricsHandler exposes the prometheus registry in text format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
