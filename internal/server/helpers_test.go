package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/internal/cache"
	"chirp/internal/config"
	"chirp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		JWTSecret:         "test-secret-key-for-handler-tests",
		SessionTTLMinutes: 60,
		Env:               "test",
	}
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.Message{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// setupTestApp builds a Fiber app with routes wired to a fresh sqlite
// database and a miniredis-backed cache.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := setupHandlerTestDB(t)

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())

	s, err := NewServerWithDeps(testConfig(), db, cache.GetClient())
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, db
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func registerAccount(t *testing.T, app *fiber.App, username, password string) models.Account {
	t.Helper()

	resp := jsonRequest(t, app, http.MethodPost, "/register", models.Account{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[models.Account](t, resp)
}

func postMessage(t *testing.T, app *fiber.App, postedBy int, text string, epoch int64) models.Message {
	t.Helper()

	resp := jsonRequest(t, app, http.MethodPost, "/messages", models.Message{
		PostedBy:        postedBy,
		MessageText:     text,
		TimePostedEpoch: epoch,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[models.Message](t, resp)
}
