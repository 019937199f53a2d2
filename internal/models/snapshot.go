package models

import (
	"time"

	"gorm.io/gorm"
)

// ZoneReading is a raw reading for one zone as produced by the sensor
// feed. Temperature and humidity come along for the dashboard but play
// no part in power accounting.
type ZoneReading struct {
	Zone        string    `json:"zone"`
	Usage       float64   `json:"usage"` // kWh
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Snapshot is a ZoneReading enriched with the zone's configured limit
// at read time. Snapshots are immutable; the next cycle supersedes them.
type Snapshot struct {
	gorm.Model
	Zone        string    `json:"zone" gorm:"index"`
	Usage       float64   `json:"usage"`
	Limit       float64   `json:"limit"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	CapturedAt  time.Time `json:"captured_at" gorm:"index"`
}

// Exceeded reports whether the zone is drawing above its limit. Zones
// without a configured limit (0) are never considered in violation.
func (s Snapshot) Exceeded() bool {
	return s.Limit > 0 && s.Usage > s.Limit
}

// Margin is the zone's unused capacity. Only meaningful for zones with
// a configured limit.
func (s Snapshot) Margin() float64 {
	return s.Limit - s.Usage
}
