package monitor

import (
	"github.com/gridsense/internal/models"
	"github.com/gridsense/internal/registry"
)

// SnapshotReader enriches raw readings with each zone's current limit.
type SnapshotReader struct {
	registry *registry.Registry
}

func NewSnapshotReader(reg *registry.Registry) *SnapshotReader {
	return &SnapshotReader{registry: reg}
}

// AttachLimits copies the registry's current limit into every reading,
// one snapshot per reading, in input order.
func (r *SnapshotReader) AttachLimits(readings []models.ZoneReading) []models.Snapshot {
	snapshots := make([]models.Snapshot, 0, len(readings))
	for _, reading := range readings {
		snapshots = append(snapshots, models.Snapshot{
			Zone:        reading.Zone,
			Usage:       reading.Usage,
			Limit:       r.registry.GetLimit(reading.Zone),
			Temperature: reading.Temperature,
			Humidity:    reading.Humidity,
			CapturedAt:  reading.CapturedAt,
		})
	}
	return snapshots
}
