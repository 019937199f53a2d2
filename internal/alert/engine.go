package alert

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gridsense/internal/balance"
	"github.com/gridsense/internal/clock"
	"github.com/gridsense/internal/models"
)

const autoResolveNote = "Automatically resolved through power redistribution"

// Engine scans snapshot sets for limit violations, opens an alert per
// violating zone and immediately tries to clear it through power
// redistribution.
type Engine struct {
	manager       *Manager
	redistributor *balance.Redistributor
	clock         clock.Clock
}

func NewEngine(manager *Manager, redistributor *balance.Redistributor, clk clock.Clock) *Engine {
	return &Engine{
		manager:       manager,
		redistributor: redistributor,
		clock:         clk,
	}
}

// Scan walks the snapshot set in order and returns the alerts created
// this cycle, auto-resolved ones included. Zones that already have an
// open alert are skipped so a lingering violation raises one episode,
// not one alert per tick.
func (e *Engine) Scan(snapshots []models.Snapshot) ([]models.Alert, error) {
	var created []models.Alert

	for _, s := range snapshots {
		if !s.Exceeded() {
			continue
		}

		open, err := e.manager.HasOpenAlert(s.Zone)
		if err != nil {
			return created, err
		}
		if open {
			continue
		}

		a := &models.Alert{
			AlertID:    newAlertID(s.Zone),
			Zone:       s.Zone,
			Usage:      s.Usage,
			Limit:      s.Limit,
			Status:     models.AlertStatusActive,
			DetectedAt: e.clock.Now(),
		}

		resolved, err := e.redistributor.Attempt(s, snapshots)
		if err != nil {
			return created, fmt.Errorf("redistribution for %s failed: %v", s.Zone, err)
		}
		if resolved {
			now := e.clock.Now()
			a.Status = models.AlertStatusResolved
			a.ResolvedAt = &now
			a.Notes = autoResolveNote
		}

		if err := e.manager.Create(a); err != nil {
			return created, err
		}

		if a.Status == models.AlertStatusActive {
			e.manager.Notify(a)
		}

		created = append(created, *a)
	}

	return created, nil
}

// newAlertID builds the operator-facing ID from the zone name plus a
// random component, so detections within the same clock tick stay
// distinct.
func newAlertID(zone string) string {
	return fmt.Sprintf("%s-%s", zone, uuid.NewString())
}
