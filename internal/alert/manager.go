package alert

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gridsense/internal/clock"
	"github.com/gridsense/internal/models"
	"github.com/slack-go/slack"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidTransition = errors.New("invalid alert state transition")
)

// NotifyConfig wires the outbound alert channels. Channels with empty
// settings are skipped.
type NotifyConfig struct {
	SlackToken     string
	SlackChannel   string
	SMTPHost       string
	SMTPPort       int
	EmailFrom      string
	EmailPassword  string
	EmailReceivers []string
}

// Manager is the live alert collection. It enforces the lifecycle
// ACTIVE -> ACKNOWLEDGED -> RESOLVED (the engine may jump straight to
// RESOLVED) and pushes notifications for alerts that stay active.
type Manager struct {
	db          *gorm.DB
	clock       clock.Clock
	config      *NotifyConfig
	slackClient *slack.Client
	emailDialer *gomail.Dialer
}

func NewManager(db *gorm.DB, clk clock.Clock, config *NotifyConfig) *Manager {
	m := &Manager{
		db:     db,
		clock:  clk,
		config: config,
	}

	if config != nil && config.SlackToken != "" {
		m.slackClient = slack.New(config.SlackToken)
	}
	if config != nil && config.SMTPHost != "" {
		m.emailDialer = gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.EmailFrom, config.EmailPassword)
	}

	return m
}

// Create saves a freshly detected alert.
func (m *Manager) Create(a *models.Alert) error {
	if err := m.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to save alert: %v", err)
	}
	return nil
}

// HasOpenAlert reports whether the zone already has an alert that is
// active or acknowledged. Used to suppress duplicate alerts while a
// violation episode is still being handled.
func (m *Manager) HasOpenAlert(zone string) (bool, error) {
	var count int64
	err := m.db.Model(&models.Alert{}).
		Where("zone = ? AND status IN ?", zone, []models.AlertStatus{models.AlertStatusActive, models.AlertStatusAcknowledged}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count open alerts: %v", err)
	}
	return count > 0, nil
}

// List returns alerts, newest detection first. An empty status returns
// everything still in the live store.
func (m *Manager) List(status models.AlertStatus) ([]models.Alert, error) {
	var alerts []models.Alert
	query := m.db.Order("id desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %v", err)
	}
	return alerts, nil
}

// Get looks an alert up by its operator-facing ID.
func (m *Manager) Get(alertID string) (*models.Alert, error) {
	var a models.Alert
	if err := m.db.First(&a, "alert_id = ?", alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to find alert: %v", err)
	}
	return &a, nil
}

// Acknowledge marks an active alert as acknowledged.
func (m *Manager) Acknowledge(alertID string) error {
	a, err := m.Get(alertID)
	if err != nil {
		return err
	}

	if a.Status != models.AlertStatusActive {
		return fmt.Errorf("%w: cannot acknowledge %s alert %s", ErrInvalidTransition, a.Status, alertID)
	}

	now := m.clock.Now()
	a.Status = models.AlertStatusAcknowledged
	a.AcknowledgedAt = &now

	if err := m.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to update alert: %v", err)
	}
	return nil
}

// Resolve closes out an acknowledged alert. The automatic path never
// comes through here; the engine stores auto-resolved alerts directly.
func (m *Manager) Resolve(alertID string) error {
	a, err := m.Get(alertID)
	if err != nil {
		return err
	}

	if a.Status != models.AlertStatusAcknowledged {
		return fmt.Errorf("%w: cannot resolve %s alert %s", ErrInvalidTransition, a.Status, alertID)
	}

	now := m.clock.Now()
	a.Status = models.AlertStatusResolved
	a.ResolvedAt = &now

	if err := m.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to update alert: %v", err)
	}
	return nil
}

// Annotate replaces the alert's free-text notes. Allowed in any state.
func (m *Manager) Annotate(alertID, note string) error {
	a, err := m.Get(alertID)
	if err != nil {
		return err
	}

	a.Notes = note
	if err := m.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to update alert: %v", err)
	}
	return nil
}

// Dismiss removes the alert from the live store entirely, whatever its
// state. The registry and the adjustment ledger are untouched.
func (m *Manager) Dismiss(alertID string) error {
	result := m.db.Unscoped().Where("alert_id = ?", alertID).Delete(&models.Alert{})
	if result.Error != nil {
		return fmt.Errorf("failed to dismiss alert: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// Notify pushes the alert to the configured channels. Failures are
// logged, never propagated; notification is best effort.
func (m *Manager) Notify(a *models.Alert) {
	if m.slackClient != nil {
		if err := m.sendSlackAlert(a); err != nil {
			log.Printf("Failed to send slack alert for %s: %v", a.Zone, err)
		}
	}
	if m.emailDialer != nil {
		if err := m.sendEmailAlert(a); err != nil {
			log.Printf("Failed to send email alert for %s: %v", a.Zone, err)
		}
	}
}

func (m *Manager) sendSlackAlert(a *models.Alert) error {
	attachment := slack.Attachment{
		Color: "#ff0000",
		Title: fmt.Sprintf("Power limit exceeded in %s", a.Zone),
		Fields: []slack.AttachmentField{
			{Title: "Zone", Value: a.Zone, Short: true},
			{Title: "Usage", Value: fmt.Sprintf("%.2f kWh", a.Usage), Short: true},
			{Title: "Limit", Value: fmt.Sprintf("%.2f kWh", a.Limit), Short: true},
			{Title: "Detected", Value: a.DetectedAt.Format(time.RFC3339), Short: true},
		},
		Footer: "GridSense Alert",
	}

	_, _, err := m.slackClient.PostMessage(
		m.config.SlackChannel,
		slack.MsgOptionAttachments(attachment),
	)
	return err
}

func (m *Manager) sendEmailAlert(a *models.Alert) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.EmailFrom)
	msg.SetHeader("To", m.config.EmailReceivers...)
	msg.SetHeader("Subject", "GridSense Alert: "+a.Zone)

	body := fmt.Sprintf(`
		Zone: %s
		Usage: %.2f kWh
		Limit: %.2f kWh
		Detected: %s

		Automatic redistribution could not cover the excess; the alert
		remains active and needs manual handling.
	`, a.Zone, a.Usage, a.Limit, a.DetectedAt.Format(time.RFC3339))

	msg.SetBody("text/plain", body)

	return m.emailDialer.DialAndSend(msg)
}
