// Package metrics defines and registers all custom Prometheus metrics for
// the identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "pending_verification", "invalid_credentials",
//     "inactive", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts by result.
// Label:
//   - result: "created", "conflict", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// OTPIssuedTotal counts one-time passcodes issued, by purpose.
// Label:
//   - purpose: "verify-email" or "reset-password"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of one-time passcodes issued, by purpose.",
	},
	[]string{"purpose"},
)

// TokenChecksTotal counts bearer-token and email-token verifications.
// Labels:
//   - kind: "access", "refresh", or "email_verify"
//   - result: "ok" or "invalid"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of token verifications, by kind and result.",
	},
	[]string{"kind", "result"},
)

// APIKeyChecksTotal counts project API-key validations.
// Label:
//   - result: "ok" or "denied" (lookup misses and secret mismatches are
//     indistinguishable on purpose)
var APIKeyChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_key_checks_total",
		Help:      "Total number of project API-key validations, by result.",
	},
	[]string{"result"},
)
