package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "thank-you note")
		assert.Contains(t, req.Messages[1].Content, "Donor context")

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message ChatMessage `json:"message"`
			}{
				{Message: ChatMessage{Role: "assistant", Content: "Dear friend, thank you."}},
			},
		})
	}))
	defer server.Close()

	writer := NewAIWriter(server.URL, "test-key", "test-model")
	draft, err := writer.DraftEmail("write a thank-you note", "Name: Pat")
	require.NoError(t, err)
	assert.Equal(t, "Dear friend, thank you.", draft)
}

func TestDraftEmailAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	writer := NewAIWriter(server.URL, "test-key", "test-model")
	_, err := writer.DraftEmail("anything", "")
	assert.ErrorContains(t, err, "429")
}

func TestDraftEmailNoKey(t *testing.T) {
	writer := NewAIWriter("http://localhost:1", "", "test-model")
	_, err := writer.DraftEmail("anything", "")
	assert.ErrorContains(t, err, "not configured")
}

func TestDraftEmailEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	writer := NewAIWriter(server.URL, "test-key", "test-model")
	_, err := writer.DraftEmail("anything", "")
	assert.ErrorContains(t, err, "no response")
}
