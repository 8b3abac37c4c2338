package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type emailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type emailResponse struct {
	ID string `json:"id"`
}

// Mailer sends transactional email through an HTTP sending API. Like the
// AI client, calls are single-attempt request/response with generic error
// surfacing.
type Mailer struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewMailer(apiURL, apiKey, from string) *Mailer {
	return &Mailer{
		apiURL:     apiURL,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers one email and returns the provider's message id.
func (m *Mailer) Send(to, subject, html string) (string, error) {
	if m.apiKey == "" || m.apiURL == "" {
		return "", fmt.Errorf("email sender not configured")
	}

	reqBody := emailRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call email API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email API error (status %d): %s", resp.StatusCode, string(body))
	}

	var emailResp emailResponse
	if err := json.Unmarshal(body, &emailResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return emailResp.ID, nil
}
