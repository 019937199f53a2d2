package stats

import (
	"testing"
	"time"

	"github.com/gridsense/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCompute_SumsAndAverages(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	snapshots := []models.Snapshot{
		{Zone: "A", Usage: 100, Limit: 200, CapturedAt: at},
		{Zone: "B", Usage: 300, Limit: 400, CapturedAt: at},
		{Zone: "C", Usage: 50, Limit: 0, CapturedAt: at},
	}

	s := Compute(snapshots)

	assert.Equal(t, 3, s.ZoneCount)
	assert.Equal(t, 450.0, s.TotalUsage)
	assert.Equal(t, 150.0, s.AverageUsage)
	assert.Equal(t, 600.0, s.TotalLimit)
	assert.Equal(t, "B", s.PeakZone)
	assert.Equal(t, 300.0, s.PeakUsage)
	assert.Equal(t, at, s.CapturedAt)
}

func TestCompute_EmptySetYieldsZeroes(t *testing.T) {
	s := Compute(nil)

	assert.Equal(t, 0, s.ZoneCount)
	assert.Equal(t, 0.0, s.TotalUsage)
	assert.Equal(t, 0.0, s.AverageUsage)
	assert.Empty(t, s.PeakZone)
}

func TestCompute_SingleZone(t *testing.T) {
	s := Compute([]models.Snapshot{{Zone: "A", Usage: 42, Limit: 100}})

	assert.Equal(t, 42.0, s.TotalUsage)
	assert.Equal(t, 42.0, s.AverageUsage)
	assert.Equal(t, "A", s.PeakZone)
}
