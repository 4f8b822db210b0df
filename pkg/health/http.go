package health

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON body served by the health endpoint.
type Response struct {
	Status  string                 `json:"status"`            // "healthy" | "unhealthy"
	Checks  map[string]CheckStatus `json:"checks,omitempty"`  // check name -> status
	Message string                 `json:"message,omitempty"` // optional message
}

// CheckStatus represents the status of an individual check in the response.
type CheckStatus struct {
	Status  string `json:"status"`            // "ok" | "error"
	Error   string `json:"error,omitempty"`   // error message if status is "error"
	Latency string `json:"latency,omitempty"` // latency in human-readable format
}

// Handler returns an HTTP handler that runs all checks. It answers
// 200 OK when everything passes and 503 otherwise.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := c.Run(r.Context())

		w.Header().Set("Content-Type", "application/json")

		response := Response{Checks: make(map[string]CheckStatus)}
		if status.Healthy {
			response.Status = "healthy"
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
			if err != nil {
				response.Message = err.Error()
			}
		}

		for _, r := range status.Checks {
			cs := CheckStatus{Latency: r.Latency.String()}
			if r.Healthy {
				cs.Status = "ok"
			} else {
				cs.Status = "error"
				cs.Error = r.Error
			}
			response.Checks[r.Name] = cs
		}

		_ = json.NewEncoder(w).Encode(response)
	}
}
