package models

// ShutdownResult represents the outcome of one shutdown pass
type ShutdownResult struct {
	TotalInstances  int      `json:"total_instances"`
	SuccessfulStops int      `json:"successful_stops"`
	FailedStops     int      `json:"failed_stops"`
	Errors          []string `json:"errors"`
}
