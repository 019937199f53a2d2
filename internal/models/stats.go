package models

import "time"

// BuildingStats are building-wide aggregates over one snapshot set.
type BuildingStats struct {
	TotalUsage   float64   `json:"total_usage"`
	AverageUsage float64   `json:"average_usage"`
	TotalLimit   float64   `json:"total_limit"`
	ZoneCount    int       `json:"zone_count"`
	PeakZone     string    `json:"peak_zone,omitempty"`
	PeakUsage    float64   `json:"peak_usage"`
	CapturedAt   time.Time `json:"captured_at"`
}
