package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gridsense/internal/alert"
	"github.com/gridsense/internal/models"
	"github.com/gridsense/internal/monitor"
	"github.com/gridsense/internal/registry"
	"github.com/gridsense/internal/report"

	"github.com/gin-gonic/gin"
)

type Server struct {
	monitor  *monitor.Monitor
	registry *registry.Registry
	manager  *alert.Manager
	exporter *report.Exporter
	router   *gin.Engine
}

func NewServer(mon *monitor.Monitor, reg *registry.Registry, manager *alert.Manager, exporter *report.Exporter) *Server {
	server := &Server{
		monitor:  mon,
		registry: reg,
		manager:  manager,
		exporter: exporter,
		router:   gin.Default(),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	// Zone monitoring endpoints
	api.GET("/zones", s.listZones)
	api.PUT("/zones/:name/limit", s.setZoneLimit)
	api.GET("/zones/:name/history", s.zoneHistory)
	api.GET("/history", s.fullHistory)
	api.GET("/stats", s.buildingStats)

	// Alert lifecycle endpoints
	api.GET("/alerts", s.listAlerts)
	api.PUT("/alerts/:id/acknowledge", s.acknowledgeAlert)
	api.PUT("/alerts/:id/resolve", s.resolveAlert)
	api.PUT("/alerts/:id/annotate", s.annotateAlert)
	api.DELETE("/alerts/:id", s.dismissAlert)

	// Data export
	api.GET("/export", s.exportCSV)
}

func (s *Server) Start(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) listZones(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshots())
}

func (s *Server) setZoneLimit(c *gin.Context) {
	zone := c.Param("name")
	if !s.registry.HasZone(zone) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown zone: %s", zone)})
		return
	}

	var req struct {
		Limit  *float64 `json:"limit" binding:"required"`
		Reason string   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Invalid values are rejected here; nothing reaches the ledger.
	if *req.Limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be non-negative"})
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = registry.DefaultReason
	}

	if err := s.registry.SetLimit(zone, *req.Limit, reason); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zone": zone, "limit": *req.Limit})
}

func (s *Server) zoneHistory(c *gin.Context) {
	zone := c.Param("name")
	if !s.registry.HasZone(zone) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown zone: %s", zone)})
		return
	}

	records, err := s.registry.ZoneHistory(zone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) fullHistory(c *gin.Context) {
	records, err := s.registry.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Ledger order is chronological; displays want newest first.
	if c.Query("order") == "desc" {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) buildingStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Stats())
}

func (s *Server) listAlerts(c *gin.Context) {
	alerts, err := s.manager.List(models.AlertStatus(c.Query("status")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (s *Server) acknowledgeAlert(c *gin.Context) {
	s.transitionAlert(c, s.manager.Acknowledge)
}

func (s *Server) resolveAlert(c *gin.Context) {
	s.transitionAlert(c, s.manager.Resolve)
}

func (s *Server) transitionAlert(c *gin.Context, transition func(string) error) {
	if err := transition(c.Param("id")); err != nil {
		switch {
		case errors.Is(err, alert.ErrAlertNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, alert.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusOK)
}

func (s *Server) annotateAlert(c *gin.Context) {
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.manager.Annotate(c.Param("id"), req.Note); err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (s *Server) dismissAlert(c *gin.Context) {
	if err := s.manager.Dismiss(c.Param("id")); err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (s *Server) exportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=gridsense-usage.csv")

	if err := s.exporter.WriteDailyUsageCSV(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
