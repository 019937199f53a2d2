package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gridsense/internal/alert"
	"github.com/gridsense/internal/balance"
	"github.com/gridsense/internal/clock"
	"github.com/gridsense/internal/database"
	"github.com/gridsense/internal/models"
	"github.com/gridsense/internal/monitor"
	"github.com/gridsense/internal/registry"
	"github.com/gridsense/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	server  *Server
	manager *alert.Manager
	reg     *registry.Registry
}

type fixedGenerator struct {
	readings []models.ZoneReading
}

func (g *fixedGenerator) Generate(at time.Time) []models.ZoneReading {
	out := make([]models.ZoneReading, len(g.readings))
	copy(out, g.readings)
	return out
}

func newServerFixture(t *testing.T, readings []models.ZoneReading, limits map[string]float64) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	reg := registry.New(db, clk)
	for zone, limit := range limits {
		require.NoError(t, reg.SetLimit(zone, limit, "Initial configuration"))
	}

	manager := alert.NewManager(db, clk, nil)
	engine := alert.NewEngine(manager, balance.New(reg), clk)
	mon := monitor.New(&fixedGenerator{readings: readings}, monitor.NewSnapshotReader(reg), engine, db, clk, time.Minute)
	require.NoError(t, mon.RunCycle())

	return &serverFixture{
		server:  NewServer(mon, reg, manager, report.NewExporter(db)),
		manager: manager,
		reg:     reg,
	}
}

func (f *serverFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func TestListZones(t *testing.T) {
	f := newServerFixture(t, []models.ZoneReading{
		{Zone: "A", Usage: 80},
	}, map[string]float64{"A": 100})

	w := f.do(http.MethodGet, "/api/v1/zones", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snapshots []models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshots))
	require.Len(t, snapshots, 1)
	assert.Equal(t, 100.0, snapshots[0].Limit)
}

func TestSetZoneLimit_Validation(t *testing.T) {
	f := newServerFixture(t, nil, map[string]float64{"A": 100})

	// Negative limits never reach the registry.
	w := f.do(http.MethodPut, "/api/v1/zones/A/limit", `{"limit": -5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 100.0, f.reg.GetLimit("A"))

	// Missing limit field.
	w = f.do(http.MethodPut, "/api/v1/zones/A/limit", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown zone.
	w = f.do(http.MethodPut, "/api/v1/zones/Nope/limit", `{"limit": 10}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Valid change lands in registry and ledger with the given reason.
	w = f.do(http.MethodPut, "/api/v1/zones/A/limit", `{"limit": 150, "reason": "Summer load"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 150.0, f.reg.GetLimit("A"))

	history, err := f.reg.ZoneHistory("A")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Summer load", history[1].Reason)
}

func TestSetZoneLimit_DefaultReason(t *testing.T) {
	f := newServerFixture(t, nil, map[string]float64{"A": 100})

	w := f.do(http.MethodPut, "/api/v1/zones/A/limit", `{"limit": 90}`)
	require.Equal(t, http.StatusOK, w.Code)

	history, err := f.reg.ZoneHistory("A")
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultReason, history[len(history)-1].Reason)
}

func TestHistoryEndpointOrdering(t *testing.T) {
	f := newServerFixture(t, nil, map[string]float64{"A": 100})
	require.NoError(t, f.reg.SetLimit("A", 120, registry.DefaultReason))

	w := f.do(http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var chronological []models.AdjustmentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chronological))
	require.Len(t, chronological, 2)
	assert.Equal(t, 100.0, chronological[0].NewLimit)

	w = f.do(http.MethodGet, "/api/v1/history?order=desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var newest []models.AdjustmentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &newest))
	require.Len(t, newest, 2)
	assert.Equal(t, 120.0, newest[0].NewLimit)
}

func TestAlertLifecycleOverHTTP(t *testing.T) {
	// A violates with no donor capacity, so the alert stays active.
	f := newServerFixture(t, []models.ZoneReading{
		{Zone: "A", Usage: 200},
	}, map[string]float64{"A": 100})

	w := f.do(http.MethodGet, "/api/v1/alerts?status=ACTIVE", "")
	require.Equal(t, http.StatusOK, w.Code)
	var alerts []models.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	id := alerts[0].AlertID

	// Resolve before acknowledge is a conflict.
	w = f.do(http.MethodPut, "/api/v1/alerts/"+id+"/resolve", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPut, "/api/v1/alerts/"+id+"/acknowledge", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPut, "/api/v1/alerts/"+id+"/annotate", `{"note": "load shed scheduled"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPut, "/api/v1/alerts/"+id+"/resolve", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodDelete, "/api/v1/alerts/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPut, "/api/v1/alerts/"+id+"/acknowledge", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	f := newServerFixture(t, []models.ZoneReading{
		{Zone: "A", Usage: 80},
		{Zone: "B", Usage: 120},
	}, map[string]float64{"A": 100, "B": 200})

	w := f.do(http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.BuildingStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 200.0, stats.TotalUsage)
	assert.Equal(t, 100.0, stats.AverageUsage)
	assert.Equal(t, "B", stats.PeakZone)
}

func TestExportEndpoint(t *testing.T) {
	f := newServerFixture(t, []models.ZoneReading{
		{Zone: "A", Usage: 80, CapturedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}, map[string]float64{"A": 100})

	w := f.do(http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "date,A"))
}
