package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := sealWithKey("server-secret", "sk-live-abc123")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "sk-live-abc123")

	plaintext, err := openWithKey("server-secret", sealed)
	require.NoError(t, err)
	assert.Equal(t, "sk-live-abc123", plaintext)
}

func TestOpenWithWrongSecretFails(t *testing.T) {
	sealed, err := sealWithKey("server-secret", "api-key")
	require.NoError(t, err)

	_, err = openWithKey("other-secret", sealed)
	assert.Error(t, err)
}

func TestSealProducesFreshCiphertext(t *testing.T) {
	first, err := sealWithKey("server-secret", "api-key")
	require.NoError(t, err)
	second, err := sealWithKey("server-secret", "api-key")
	require.NoError(t, err)

	// Random salt and nonce per seal
	assert.NotEqual(t, first, second)
}

func TestOpenGarbageFails(t *testing.T) {
	_, err := openWithKey("server-secret", []byte("not an envelope"))
	assert.Error(t, err)
}
