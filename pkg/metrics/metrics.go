package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nutricoach", Name: "login_attempts_total", Help: "Number of login attempts by outcome."},
		[]string{"outcome"},
	)
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nutricoach", Name: "registrations_total", Help: "Number of registrations by role."},
		[]string{"role"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nutricoach", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nutricoach", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(Registrations)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
