package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/gridsense/internal/database"
	"github.com/gridsense/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDailyUsageCSV(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	snapshots := []models.Snapshot{
		{Zone: "East Wing", Usage: 100, CapturedAt: day1},
		{Zone: "West Wing", Usage: 50, CapturedAt: day1},
		{Zone: "East Wing", Usage: 25, CapturedAt: day1.Add(time.Hour)},
		{Zone: "East Wing", Usage: 80, CapturedAt: day2},
	}
	for i := range snapshots {
		require.NoError(t, db.Create(&snapshots[i]).Error)
	}

	var buf bytes.Buffer
	require.NoError(t, NewExporter(db).WriteDailyUsageCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"date", "East Wing", "West Wing"}, rows[0])
	assert.Equal(t, []string{"2025-06-01", "125.00", "50.00"}, rows[1])
	assert.Equal(t, []string{"2025-06-02", "80.00", "0.00"}, rows[2])
}

func TestWriteDailyUsageCSV_EmptyHistory(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	var buf bytes.Buffer
	require.NoError(t, NewExporter(db).WriteDailyUsageCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"date"}, rows[0])
}
