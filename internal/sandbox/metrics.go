package sandbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "admin_sandbox"

// LoginsTotal counts authentication attempts, labelled success/failure.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UserMutationsTotal counts account create/update/delete operations.
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "user_mutations_total",
		Help:      "Total number of account mutations, by operation and result.",
	},
	[]string{"op", "result"},
)
