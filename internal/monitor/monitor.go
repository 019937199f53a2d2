package monitor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gridsense/internal/alert"
	"github.com/gridsense/internal/clock"
	"github.com/gridsense/internal/models"
	"github.com/gridsense/internal/stats"
	"gorm.io/gorm"
)

// Monitor drives the periodic cycle: generate readings, attach limits,
// persist the snapshot set, scan for violations. One cycle runs to
// completion before the next tick fires.
type Monitor struct {
	generator Generator
	reader    *SnapshotReader
	engine    *alert.Engine
	db        *gorm.DB
	clock     clock.Clock
	interval  time.Duration

	mu          sync.RWMutex
	latest      []models.Snapshot
	latestStats models.BuildingStats

	stopChan chan struct{}
}

func New(generator Generator, reader *SnapshotReader, engine *alert.Engine, db *gorm.DB, clk clock.Clock, interval time.Duration) *Monitor {
	return &Monitor{
		generator: generator,
		reader:    reader,
		engine:    engine,
		db:        db,
		clock:     clk,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start runs one cycle immediately, then keeps cycling on the ticker
// until Stop is called.
func (m *Monitor) Start() error {
	if err := m.RunCycle(); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := m.RunCycle(); err != nil {
					log.Printf("Error running monitor cycle: %v", err)
				}
			case <-m.stopChan:
				return
			}
		}
	}()

	return nil
}

func (m *Monitor) Stop() {
	close(m.stopChan)
}

// RunCycle executes one full read-scan pass against a single consistent
// snapshot set.
func (m *Monitor) RunCycle() error {
	readings := m.generator.Generate(m.clock.Now())
	snapshots := m.reader.AttachLimits(readings)

	if err := m.storeSnapshots(snapshots); err != nil {
		return err
	}

	if _, err := m.engine.Scan(snapshots); err != nil {
		return err
	}

	buildingStats := stats.Compute(snapshots)

	m.mu.Lock()
	m.latest = snapshots
	m.latestStats = buildingStats
	m.mu.Unlock()

	return nil
}

func (m *Monitor) storeSnapshots(snapshots []models.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		for i := range snapshots {
			if err := tx.Create(&snapshots[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshots: %v", err)
	}
	return nil
}

// Snapshots returns the most recent snapshot set.
func (m *Monitor) Snapshots() []models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Snapshot, len(m.latest))
	copy(out, m.latest)
	return out
}

// Stats returns the aggregates for the most recent snapshot set.
func (m *Monitor) Stats() models.BuildingStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestStats
}
