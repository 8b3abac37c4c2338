package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer mail-key", r.Header.Get("Authorization"))

		var req emailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "giving@example.org", req.From)
		assert.Equal(t, "pat@example.com", req.To)
		assert.Equal(t, "Thank you!", req.Subject)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(emailResponse{ID: "msg_123"})
	}))
	defer server.Close()

	mailer := NewMailer(server.URL, "mail-key", "giving@example.org")
	id, err := mailer.Send("pat@example.com", "Thank you!", "<p>Thanks</p>")
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
}

func TestMailerSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad recipient"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	mailer := NewMailer(server.URL, "mail-key", "giving@example.org")
	_, err := mailer.Send("nope", "s", "b")
	assert.ErrorContains(t, err, "422")
}

func TestMailerNotConfigured(t *testing.T) {
	mailer := NewMailer("", "", "giving@example.org")
	_, err := mailer.Send("pat@example.com", "s", "b")
	assert.ErrorContains(t, err, "not configured")
}
