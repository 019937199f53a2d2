// Package stats reduces a snapshot set into building-wide aggregates.
package stats

import (
	"github.com/gridsense/internal/models"
)

// Compute sums and averages one snapshot set. An empty set yields
// zero-valued stats rather than NaN averages; non-empty input follows
// the plain total/count arithmetic.
func Compute(snapshots []models.Snapshot) models.BuildingStats {
	s := models.BuildingStats{ZoneCount: len(snapshots)}
	if len(snapshots) == 0 {
		return s
	}

	s.CapturedAt = snapshots[0].CapturedAt
	for _, snap := range snapshots {
		s.TotalUsage += snap.Usage
		s.TotalLimit += snap.Limit
		if snap.Usage > s.PeakUsage {
			s.PeakUsage = snap.Usage
			s.PeakZone = snap.Zone
		}
	}

	s.AverageUsage = s.TotalUsage / float64(len(snapshots))
	return s
}
