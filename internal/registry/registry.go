// Package registry owns the per-zone power limits and the append-only
// ledger of every limit change.
package registry

import (
	"fmt"
	"sync"

	"github.com/gridsense/internal/clock"
	"github.com/gridsense/internal/models"
	"gorm.io/gorm"
)

// DefaultReason is attached to limit changes made by an operator who
// gave no reason of their own.
const DefaultReason = "Manual adjustment"

// Registry holds the current limit for every known zone. The zone set
// is fixed at startup; limits change only through SetLimit, and every
// change lands in the adjustment ledger with its provenance.
type Registry struct {
	mu     sync.Mutex
	limits map[string]float64
	db     *gorm.DB
	clock  clock.Clock
}

func New(db *gorm.DB, clk clock.Clock) *Registry {
	return &Registry{
		limits: make(map[string]float64),
		db:     db,
		clock:  clk,
	}
}

// SetLimit records the change in the ledger and stores newLimit as the
// zone's current limit. Callers validate the value; the registry itself
// accepts what it is given.
func (r *Registry) SetLimit(zone string, newLimit float64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := &models.AdjustmentRecord{
		Zone:      zone,
		OldLimit:  r.limits[zone],
		NewLimit:  newLimit,
		Reason:    reason,
		Timestamp: r.clock.Now(),
	}

	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to record adjustment: %v", err)
	}

	r.limits[zone] = newLimit
	return nil
}

// GetLimit returns the zone's current limit, or 0 if none was ever set.
func (r *Registry) GetLimit(zone string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limits[zone]
}

// HasZone reports whether the zone has ever been registered.
func (r *Registry) HasZone(zone string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.limits[zone]
	return ok
}

// Zones returns the registered zone names.
func (r *Registry) Zones() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	zones := make([]string, 0, len(r.limits))
	for zone := range r.limits {
		zones = append(zones, zone)
	}
	return zones
}

// History returns the full ledger in insertion order, oldest first.
func (r *Registry) History() ([]models.AdjustmentRecord, error) {
	var records []models.AdjustmentRecord
	if err := r.db.Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch adjustment history: %v", err)
	}
	return records, nil
}

// ZoneHistory returns the ledger entries for one zone, oldest first.
func (r *Registry) ZoneHistory(zone string) ([]models.AdjustmentRecord, error) {
	var records []models.AdjustmentRecord
	if err := r.db.Where("zone = ?", zone).Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch adjustment history for %s: %v", zone, err)
	}
	return records, nil
}
