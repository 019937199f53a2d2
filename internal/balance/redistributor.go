// Package balance implements the proportional reallocation of spare
// power capacity between zones.
package balance

import (
	"fmt"
	"math"

	"github.com/gridsense/internal/models"
	"github.com/gridsense/internal/registry"
)

const (
	// ContributableShare is the fraction of a donor's margin offered
	// for redistribution; the remaining 20% stays with the donor as
	// headroom.
	ContributableShare = 0.8

	// ReceiverBuffer raises the violating zone's new limit 10% above
	// the usage that triggered the violation.
	ReceiverBuffer = 1.1
)

type Redistributor struct {
	registry *registry.Registry
}

func New(reg *registry.Registry) *Redistributor {
	return &Redistributor{registry: reg}
}

type donor struct {
	snapshot      models.Snapshot
	contributable float64
}

// Attempt tries to close the violating zone's excess by lowering the
// limits of zones with spare capacity and raising the violator's. The
// whole snapshot set is evaluated before anything is committed: either
// the offered capacity covers the full excess and every limit change
// applies, or nothing changes and false is returned. Donor margins are
// taken from the snapshots passed in, never re-read live.
func (d *Redistributor) Attempt(violator models.Snapshot, snapshots []models.Snapshot) (bool, error) {
	excess := violator.Usage - violator.Limit
	if excess <= 0 {
		return false, nil
	}

	var donors []donor
	var totalAvailable float64
	for _, s := range snapshots {
		if s.Zone == violator.Zone || s.Limit <= 0 || s.Usage >= s.Limit {
			continue
		}
		dn := donor{snapshot: s, contributable: s.Margin() * ContributableShare}
		donors = append(donors, dn)
		totalAvailable += dn.contributable
	}

	if len(donors) == 0 || totalAvailable < excess {
		return false, nil
	}

	for _, dn := range donors {
		contribution := dn.contributable / totalAvailable * excess
		newLimit := roundKWh(dn.snapshot.Limit - contribution)
		if floor := math.Ceil(dn.snapshot.Usage); newLimit < floor {
			// A donor's limit never drops below its own draw.
			newLimit = floor
		}

		reason := fmt.Sprintf("Contributed %.0f kWh to %s", roundKWh(contribution), violator.Zone)
		if err := d.registry.SetLimit(dn.snapshot.Zone, newLimit, reason); err != nil {
			return false, err
		}
	}

	newLimit := roundKWh(violator.Usage * ReceiverBuffer)
	if err := d.registry.SetLimit(violator.Zone, newLimit, "Received power from other locations"); err != nil {
		return false, err
	}

	return true, nil
}

// roundKWh rounds half up to the nearest whole kWh.
func roundKWh(v float64) float64 {
	return math.Floor(v + 0.5)
}
