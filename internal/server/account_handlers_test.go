package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("valid registration returns account with id", func(t *testing.T) {
		account := registerAccount(t, app, "ann", "pw12")
		assert.NotZero(t, account.ID)
		assert.Equal(t, "ann", account.Username)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		resp := jsonRequest(t, app, http.MethodPost, "/register", models.Account{
			Username: "ann", Password: "other",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[models.ErrorResponse](t, resp)
		assert.Equal(t, "The username must be unique", body.Error)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
			message  string
		}{
			{"blank username", "", "pw12", "Username cannot be blank"},
			{"empty password", "bob", "", "Password cannot be empty"},
			{"short password", "bob", "pw1", "Password must be at least 4 characters long"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := jsonRequest(t, app, http.MethodPost, "/register", models.Account{
					Username: tt.username, Password: tt.password,
				})
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

				body := decodeBody[models.ErrorResponse](t, resp)
				assert.Equal(t, tt.message, body.Error)
			})
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	app, _ := setupTestApp(t)
	created := registerAccount(t, app, "carol", "pw12")

	t.Run("correct credentials", func(t *testing.T) {
		resp := jsonRequest(t, app, http.MethodPost, "/login", models.Account{
			Username: "carol", Password: "pw12",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var sessionCookie string
		for _, c := range resp.Cookies() {
			if c.Name == "chirp_session" {
				sessionCookie = c.Value
			}
		}
		assert.NotEmpty(t, sessionCookie, "login should set the session cookie")

		body := decodeBody[models.Account](t, resp)
		assert.Equal(t, created.ID, body.ID)
		assert.Equal(t, "carol", body.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := jsonRequest(t, app, http.MethodPost, "/login", models.Account{
			Username: "carol", Password: "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("unknown username", func(t *testing.T) {
		resp := jsonRequest(t, app, http.MethodPost, "/login", models.Account{
			Username: "ghost", Password: "pw12",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestSessionLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)
	created := registerAccount(t, app, "dave", "pw12")

	resp := jsonRequest(t, app, http.MethodPost, "/login", models.Account{
		Username: "dave", Password: "pw12",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "chirp_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	t.Run("session resolves to the logged-in account", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.AddCookie(cookie)
		sessionResp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, sessionResp.StatusCode)

		body := decodeBody[map[string]any](t, sessionResp)
		assert.Equal(t, float64(created.ID), body["id"])
		assert.Equal(t, "dave", body["username"])
	})

	t.Run("no cookie is unauthorized", func(t *testing.T) {
		sessionResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/session", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, sessionResp.StatusCode)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.AddCookie(&http.Cookie{Name: "chirp_session", Value: "not-a-jwt"})
		sessionResp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, sessionResp.StatusCode)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(cookie)
		logoutResp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

		var cleared *http.Cookie
		for _, c := range logoutResp.Cookies() {
			if c.Name == "chirp_session" {
				cleared = c
			}
		}
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})
}

func TestRegister_ManyAccountsGetDistinctIDs(t *testing.T) {
	app, _ := setupTestApp(t)

	seen := make(map[int]bool)
	for i := 0; i < 5; i++ {
		account := registerAccount(t, app, fmt.Sprintf("user%d", i), "pw12")
		assert.False(t, seen[account.ID], "id %d assigned twice", account.ID)
		seen[account.ID] = true
	}
}
