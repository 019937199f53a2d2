// Package report produces tabular exports of historical usage.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/gridsense/internal/models"
	"gorm.io/gorm"
)

type Exporter struct {
	db *gorm.DB
}

func NewExporter(db *gorm.DB) *Exporter {
	return &Exporter{db: db}
}

// WriteDailyUsageCSV writes one row per day with a column per zone,
// each cell holding that zone's summed usage for the day.
func (e *Exporter) WriteDailyUsageCSV(w io.Writer) error {
	var snapshots []models.Snapshot
	if err := e.db.Order("captured_at asc").Find(&snapshots).Error; err != nil {
		return fmt.Errorf("failed to fetch snapshot history: %v", err)
	}

	zoneSet := make(map[string]bool)
	daily := make(map[string]map[string]float64) // date -> zone -> usage
	for _, s := range snapshots {
		date := s.CapturedAt.Format("2006-01-02")
		if daily[date] == nil {
			daily[date] = make(map[string]float64)
		}
		daily[date][s.Zone] += s.Usage
		zoneSet[s.Zone] = true
	}

	zones := make([]string, 0, len(zoneSet))
	for zone := range zoneSet {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	cw := csv.NewWriter(w)
	header := append([]string{"date"}, zones...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, date := range dates {
		row := []string{date}
		for _, zone := range zones {
			row = append(row, fmt.Sprintf("%.2f", daily[date][zone]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
