package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Decision outcomes
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
	OutcomeAborted = "aborted"
)

// Refresh results
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
)

// Metrics holds the collectors of the authorization layer. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	authDecisions *prometheus.CounterVec
	jwksRefreshes *prometheus.CounterVec
	jwksKeys      prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeeshop",
			Name:      "auth_decisions_total",
			Help:      "Authorization decisions by outcome and failure kind.",
		}, []string{"outcome", "kind"}),
		jwksRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeeshop",
			Name:      "jwks_refresh_total",
			Help:      "Signing key set fetches by result.",
		}, []string{"result"}),
		jwksKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coffeeshop",
			Name:      "jwks_keys",
			Help:      "Number of keys in the cached signing key set.",
		}),
	}
	reg.MustRegister(m.authDecisions, m.jwksRefreshes, m.jwksKeys)
	return m
}

// ObserveDecision counts one authorization decision
func (m *Metrics) ObserveDecision(outcome, kind string) {
	if m == nil {
		return
	}
	m.authDecisions.WithLabelValues(outcome, kind).Inc()
}

// ObserveRefresh counts one key set fetch
func (m *Metrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.jwksRefreshes.WithLabelValues(result).Inc()
}

// SetKeyCount records the size of the current key set
func (m *Metrics) SetKeyCount(n int) {
	if m == nil {
		return
	}
	m.jwksKeys.Set(float64(n))
}
