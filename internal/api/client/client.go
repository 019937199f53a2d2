package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/gridsense/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() (*Client, error) {
	baseURL := os.Getenv("GRIDSENSE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *Client) ListZones() ([]models.Snapshot, error) {
	var snapshots []models.Snapshot
	if err := c.get("/api/v1/zones", &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (c *Client) SetZoneLimit(zone string, limit float64, reason string) error {
	data := map[string]interface{}{
		"limit": limit,
	}
	if reason != "" {
		data["reason"] = reason
	}
	return c.put(fmt.Sprintf("/api/v1/zones/%s/limit", url.PathEscape(zone)), data, nil)
}

func (c *Client) GetZoneHistory(zone string) ([]models.AdjustmentRecord, error) {
	var records []models.AdjustmentRecord
	if err := c.get(fmt.Sprintf("/api/v1/zones/%s/history", url.PathEscape(zone)), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) GetHistory(newestFirst bool) ([]models.AdjustmentRecord, error) {
	endpoint := "/api/v1/history"
	if newestFirst {
		endpoint += "?order=desc"
	}

	var records []models.AdjustmentRecord
	if err := c.get(endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) GetStats() (*models.BuildingStats, error) {
	var stats models.BuildingStats
	if err := c.get("/api/v1/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListAlerts(status string) ([]models.Alert, error) {
	endpoint := "/api/v1/alerts"
	if status != "" {
		query := url.Values{}
		query.Set("status", status)
		endpoint += "?" + query.Encode()
	}

	var alerts []models.Alert
	if err := c.get(endpoint, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *Client) AcknowledgeAlert(alertID string) error {
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/acknowledge", alertID), nil, nil)
}

func (c *Client) ResolveAlert(alertID string) error {
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/resolve", alertID), nil, nil)
}

func (c *Client) AnnotateAlert(alertID, note string) error {
	data := map[string]string{"note": note}
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/annotate", alertID), data, nil)
}

func (c *Client) DismissAlert(alertID string) error {
	resp, err := c.doRequest(http.MethodDelete, fmt.Sprintf("/api/v1/alerts/%s", alertID), nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) ExportUsage(output string) error {
	resp, err := c.doRequest(http.MethodGet, "/api/v1/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func (c *Client) get(endpoint string, v interface{}) error {
	resp, err := c.doRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) put(endpoint string, data, v interface{}) error {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %v", err)
		}
		body = bytes.NewReader(jsonData)
	}

	resp, err := c.doRequest(http.MethodPut, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *Client) doRequest(method, endpoint string, body io.Reader) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %v", err)
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %v", err)
	}
	u.Path = path.Join(u.Path, parsed.Path)
	u.RawQuery = parsed.RawQuery

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("API error: %s", errResp.Error)
		}
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return resp, nil
}
