package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatMessage is one message in the chat-completion wire format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// AIWriter drafts donor emails through an OpenAI-compatible chat
// completion endpoint. Calls are single-attempt with a generic error
// surfaced to the caller; there is no retry or backoff.
type AIWriter struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewAIWriter(baseURL, apiKey, model string) *AIWriter {
	return &AIWriter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

const draftSystemPrompt = "You are a fundraising assistant for a nonprofit. " +
	"Write a warm, concise donor email for the request below. " +
	"Return only the email body, no subject line and no commentary."

// DraftEmail asks the model for a donor email covering the given request.
// donorContext, when present, is appended so the draft can reference the
// donor's history.
func (w *AIWriter) DraftEmail(request, donorContext string) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("AI API key not configured")
	}

	userPrompt := request
	if donorContext != "" {
		userPrompt = request + "\n\nDonor context:\n" + donorContext
	}

	reqBody := chatRequest{
		Model: w.model,
		Messages: []ChatMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", w.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call AI API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI API")
	}

	return chatResp.Choices[0].Message.Content, nil
}
