package tests

import (
	"net/http"
	"testing"
	"time"

	"RestaurantAdviser/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := setup(t)

	w, _ := env.request(t, http.MethodPost, "/api/v1/password/forgot", map[string]string{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.mailer.tokens)
}

func TestForgotPasswordValidation(t *testing.T) {
	env := setup(t)

	w, body := env.request(t, http.MethodPost, "/api/v1/password/forgot", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Invalid_email")
}

func TestPasswordResetFlow(t *testing.T) {
	env := setup(t)
	env.signUp(t, "jack")

	w, _ := env.request(t, http.MethodPost, "/api/v1/password/forgot", map[string]string{"email": "Jack@Example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mailer.tokens, 1)
	assert.Equal(t, "jack@example.com", env.mailer.to)
	token := env.mailer.tokens[0]

	w, body := env.request(t, http.MethodPost, "/api/v1/password/reset", map[string]string{
		"token":           token,
		"new_password":    "brandnew1",
		"retype_password": "different",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Password_mismatch")

	w, _ = env.request(t, http.MethodPost, "/api/v1/password/reset", map[string]string{
		"token":           token,
		"new_password":    "brandnew1",
		"retype_password": "brandnew1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.request(t, http.MethodPost, "/api/v1/login", map[string]string{
		"email":    "jack@example.com",
		"password": "brandnew1",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// tokens are single use
	w, body = env.request(t, http.MethodPost, "/api/v1/password/reset", map[string]string{
		"token":           token,
		"new_password":    "another1",
		"retype_password": "another1",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Invalid_token")
}

func TestPasswordResetExpiredToken(t *testing.T) {
	env := setup(t)
	env.signUp(t, "kate")

	stale := models.ResetPassword{
		Email:     "kate@example.com",
		Token:     "expired-token",
		CreatedAt: time.Now().Add(-2 * models.ResetPasswordTTL),
	}
	require.NoError(t, env.db.Create(&stale).Error)

	w, body := env.request(t, http.MethodPost, "/api/v1/password/reset", map[string]string{
		"token":           "expired-token",
		"new_password":    "brandnew1",
		"retype_password": "brandnew1",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorsOf(t, body, "error"), "Invalid_token")
}
