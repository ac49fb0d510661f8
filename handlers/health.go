package handlers

import (
	"net/http"

	"github.com/lfapurpose/ghost-gateway/app"
	"github.com/lfapurpose/ghost-gateway/internal/observability"
	"github.com/lfapurpose/ghost-gateway/services/posts"
	"github.com/lfapurpose/ghost-gateway/utils"
)

// ReadinessResponse reports which Ghost APIs the process can reach
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// StatusResponse is returned by the status endpoint
type StatusResponse struct {
	Version     string                    `json:"version"`
	Environment string                    `json:"environment"`
	Ghost       GhostStatus               `json:"ghost"`
	Upstream    []observability.CallStats `json:"upstream"`
	Cache       *posts.CacheStats         `json:"cache,omitempty"`
}

// GhostStatus describes the configured Ghost site. Secrets are never included.
type GhostStatus struct {
	URL           string `json:"url,omitempty"`
	AdminKeyID    string `json:"admin_key_id,omitempty"`
	AcceptVersion string `json:"accept_version"`
	AdminReady    bool   `json:"admin_ready"`
	ContentReady  bool   `json:"content_ready"`
}

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadinessCheck returns 503 until the Ghost Admin API is usable
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := ReadinessResponse{
			Status: "ready",
			Checks: map[string]string{},
		}

		if deps.AdminReady {
			response.Checks["ghost_admin"] = "configured"
		} else {
			response.Status = "not_ready"
			response.Checks["ghost_admin"] = deps.GhostProblem
		}

		// The content API only backs the public endpoint and does not gate readiness
		if deps.ContentReady {
			response.Checks["ghost_content"] = "configured"
		} else {
			response.Checks["ghost_content"] = "not_configured"
		}

		status := http.StatusOK
		if response.Status != "ready" {
			status = http.StatusServiceUnavailable
		}
		_ = utils.WriteJSON(w, status, response)
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{
			Version:     app.Version,
			Environment: deps.Config.Environment,
			Ghost: GhostStatus{
				URL:           deps.Config.Ghost.URL,
				AcceptVersion: deps.Config.Ghost.AcceptVersion,
				AdminReady:    deps.AdminReady,
				ContentReady:  deps.ContentReady,
			},
			Upstream: deps.Metrics.Snapshot(),
		}
		if deps.Signer != nil {
			response.Ghost.AdminKeyID = deps.Signer.KeyID()
		}
		if deps.PostCache != nil {
			stats := deps.PostCache.Stats()
			response.Cache = &stats
		}

		_ = utils.WriteJSON(w, http.StatusOK, response)
	}
}
