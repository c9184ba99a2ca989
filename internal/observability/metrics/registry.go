package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every metric this service exports.
const Namespace = "socialbridge"

// NewRegistry creates a Prometheus registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// RegisterDBStats exports connection pool statistics for db. No-op when either is nil.
func RegisterDBStats(reg *prometheus.Registry, db *sql.DB) {
	if reg == nil || db == nil {
		return
	}
	reg.MustRegister(collectors.NewDBStatsCollector(db, Namespace))
}
