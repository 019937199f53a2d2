package models

import (
	"time"

	"gorm.io/gorm"
)

type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "ACTIVE"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// Alert records one limit-violation episode for a zone. AlertID is the
// operator-facing identifier; it embeds the zone name plus a random
// component so two detections in the same clock tick never collide.
type Alert struct {
	gorm.Model
	AlertID        string      `json:"alert_id" gorm:"uniqueIndex;not null"`
	Zone           string      `json:"zone" gorm:"index"`
	Usage          float64     `json:"usage"` // draw at detection time
	Limit          float64     `json:"limit"` // limit at detection time
	Status         AlertStatus `json:"status" gorm:"index"`
	DetectedAt     time.Time   `json:"detected_at"`
	AcknowledgedAt *time.Time  `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

// Open reports whether the alert still needs attention.
func (a Alert) Open() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusAcknowledged
}
