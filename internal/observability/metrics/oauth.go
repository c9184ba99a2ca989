package metrics

import (
	"errors"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Operations recorded by OAuthMetrics.
const (
	OpBegin      = "begin"
	OpCallback   = "callback"
	OpRefresh    = "refresh"
	OpComment    = "comment"
	OpDisconnect = "disconnect"
)

// OAuthMetrics counts provider operations by outcome.
// A nil *OAuthMetrics is valid and records nothing.
type OAuthMetrics struct {
	operations *prometheus.CounterVec
}

// NewOAuthMetrics registers the provider operation counter on reg.
func NewOAuthMetrics(reg *prometheus.Registry) *OAuthMetrics {
	if reg == nil {
		return nil
	}
	m := &OAuthMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "oauth_operations_total",
				Help:      "Provider operations partitioned by provider, operation and outcome.",
			},
			[]string{"provider", "operation", "outcome"},
		),
	}
	reg.MustRegister(m.operations)
	return m
}

// Observe records one operation. The outcome is "success" or the error code of err.
func (m *OAuthMetrics) Observe(provider, operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(provider, operation, Outcome(err)).Inc()
}

// Outcome maps err onto a bounded label value.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	var perr *appErrors.ProviderError
	if errors.As(err, &perr) {
		return perr.Kind.Code
	}
	var apiErr *appErrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return appErrors.ErrInternalServer.Code
}
