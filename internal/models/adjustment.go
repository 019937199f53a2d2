package models

import (
	"time"

	"gorm.io/gorm"
)

// AdjustmentRecord is one entry in the append-only limit-change ledger.
// Records are created by the zone registry and never updated or deleted.
type AdjustmentRecord struct {
	gorm.Model
	Zone      string    `json:"zone" gorm:"index"`
	OldLimit  float64   `json:"old_limit"`
	NewLimit  float64   `json:"new_limit"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
