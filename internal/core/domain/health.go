package domain

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

// Health is the backend's self-reported condition from GET /health.
type Health struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
	DBProvider  string `json:"db_provider,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Healthy reports whether the backend is up and its database reachable.
func (h Health) Healthy() bool {
	return h.Status == HealthStatusHealthy && h.Database == DatabaseConnected
}
