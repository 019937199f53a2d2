package main

import (
	"log"

	"github.com/gridsense/internal/alert"
	"github.com/gridsense/internal/api"
	"github.com/gridsense/internal/balance"
	"github.com/gridsense/internal/clock"
	"github.com/gridsense/internal/config"
	"github.com/gridsense/internal/database"
	"github.com/gridsense/internal/monitor"
	"github.com/gridsense/internal/registry"
	"github.com/gridsense/internal/report"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	clk := clock.New()

	// Seed the zone registry from configuration; every initial limit
	// lands in the ledger like any other adjustment.
	reg := registry.New(db, clk)
	for _, zone := range cfg.Zones {
		if err := reg.SetLimit(zone.Name, zone.Limit, "Initial configuration"); err != nil {
			log.Fatalf("Failed to register zone %s: %v", zone.Name, err)
		}
	}

	// Initialize alert manager and engine
	notifyConfig := &alert.NotifyConfig{
		SlackToken:     cfg.Alert.Slack.Token,
		SlackChannel:   cfg.Alert.Slack.Channel,
		SMTPHost:       cfg.Alert.Email.SMTPHost,
		SMTPPort:       cfg.Alert.Email.SMTPPort,
		EmailFrom:      cfg.Alert.Email.From,
		EmailPassword:  cfg.Alert.Email.Password,
		EmailReceivers: cfg.Alert.Email.ToReceivers,
	}
	manager := alert.NewManager(db, clk, notifyConfig)
	engine := alert.NewEngine(manager, balance.New(reg), clk)

	// Initialize monitor with the simulated sensor feed
	generator := monitor.NewSimulatedGenerator(cfg.Zones, cfg.Monitor.Seed)
	reader := monitor.NewSnapshotReader(reg)
	mon := monitor.New(generator, reader, engine, db, clk, cfg.MonitorInterval())

	if err := mon.Start(); err != nil {
		log.Fatalf("Failed to start monitor: %v", err)
	}
	defer mon.Stop()

	// Initialize and start API server
	server := api.NewServer(mon, reg, manager, report.NewExporter(db))
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
