package server

import "github.com/plancal/plancal/internal/scheduler"

// apiError is the JSON shape of every non-2xx response body.
type apiError struct {
	Error string `json:"error"`
}

// maintenanceResponse wraps a maintenance run's change report.
type maintenanceResponse struct {
	Success bool             `json:"success"`
	Result  scheduler.Result `json:"result"`
}
