// Package escapeclient consumes the escape report endpoint of a running server.
package escapeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourname/blackholeescape/internal"
)

// Client fetches escape reports over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Escape calls GET {base}/api/escape/{login}. A non-2xx status or a body that
// is not a report is an error. The risk level is decoded leniently: when it is
// missing or not numeric the report carries internal.DefaultRiskScore.
func (c *Client) Escape(ctx context.Context, login string) (*internal.EscapeReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/escape/"+url.PathEscape(login), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch escape report: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("escape report for %s returned status %d: %s", login, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Status     *json.RawMessage `json:"status"`
		EscapePlan *json.RawMessage `json:"escape_plan"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode escape report: %w", err)
	}
	if envelope.Status == nil {
		return nil, fmt.Errorf("escape report for %s has no status", login)
	}

	report := internal.EscapeReport{}
	report.Status.RiskLevel = internal.DefaultRiskScore
	if err := json.Unmarshal(*envelope.Status, &report.Status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	if envelope.EscapePlan != nil {
		if err := json.Unmarshal(*envelope.EscapePlan, &report.EscapePlan); err != nil {
			return nil, fmt.Errorf("failed to decode escape plan: %w", err)
		}
	}
	return &report, nil
}
