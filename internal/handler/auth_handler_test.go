package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "Stepper@Example.com",
		"username": "bigsteppa",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "token")
	assert.Contains(t, resp, "user")

	// Credential material never leaves the server
	body := w.Body.String()
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "credentials")
	assert.NotContains(t, body, testPassword)

	// Email stored canonicalized
	var user struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(resp["user"], &user))
	assert.Equal(t, "stepper@example.com", user.Email)
}

func TestRegisterEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("invalid email", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email": "not-an-email", "username": "bigsteppa", "password": testPassword,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email": "stepper@example.com", "username": "bigsteppa", "password": "weakpassword",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})

	t.Run("duplicate identity", func(t *testing.T) {
		env.register(t, "taken@example.com", "taken")
		w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"email": "taken@example.com", "username": "someoneelse", "password": testPassword,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "stepper@example.com", "bigsteppa")

	t.Run("success", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "STEPPER@example.com", "password": testPassword,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp, "token")
		assert.Contains(t, resp, "user")
		assert.NotContains(t, w.Body.String(), "passwordHash")
	})

	t.Run("wrong password and unknown account are indistinguishable", func(t *testing.T) {
		wrong := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "stepper@example.com", "password": "Wr0ng!Pass!",
		})
		unknown := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "nobody@example.com", "password": testPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/challenges/challenges", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/challenges/challenges", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "stepper@example.com", "bigsteppa")

	// Token works before logout
	w := env.request(t, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Revoked token is rejected until natural expiry
	w = env.request(t, http.MethodGet, "/api/users/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "stepper@example.com", "bigsteppa")

	w := env.request(t, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)

	w = env.request(t, http.MethodPatch, "/api/users/profile", token, gin.H{"username": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "renamed")

	w = env.request(t, http.MethodDelete, "/api/users/account", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Account is gone; the still-valid token no longer has a user behind it
	w = env.request(t, http.MethodGet, "/api/users/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
