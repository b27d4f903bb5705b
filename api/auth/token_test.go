package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	token, err := CreateToken(42)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	require.NoError(t, TokenValid(req))
	id, err := ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenFromQuery(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	token, err := CreateToken(7)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/?token="+token, nil)
	id, err := ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	t.Setenv("API_SECRET", "one")
	token, err := CreateToken(1)
	require.NoError(t, err)

	t.Setenv("API_SECRET", "two")
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = ExtractTokenID(req)
	assert.Error(t, err)
}

func TestMissingToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Error(t, TokenValid(req))
}
