// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// mounting promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Transport-guard decision labels.
const (
	DecisionUnenforced = "unenforced"
	DecisionSecure     = "secure"
	DecisionRedirected = "redirected"
	DecisionRejected   = "rejected"
)

var (
	TransportDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_decisions_total",
			Help: "Requests seen by the HTTPS guard, by decision.",
		}, []string{"decision"})

	TLSContextLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tls_context_loaded",
			Help: "1 when the server is serving with a TLS context, else 0.",
		})

	UploadProvisionErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_provision_errors_total",
			Help: "Cumulative number of upload directories that could not be created.",
		})

	DBConnectAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "db_connect_attempts_total",
			Help: "Cumulative number of database ping attempts during startup.",
		})
)

func init() {
	prometheus.MustRegister(
		TransportDecisions,
		TLSContextLoaded,
		UploadProvisionErrorsTotal,
		DBConnectAttemptsTotal,
	)
}
