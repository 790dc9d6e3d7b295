package routes_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"simplelms/backend/config"
	"simplelms/backend/middleware"
	"simplelms/backend/routes"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Default()
	cfg.DBDriver = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "routes_test.db")

	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return routes.NewApp(db, cfg, zerolog.Nop())
}

func TestIndex(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<h1>Hello World Simple LMS</h1>", string(body))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestErrorResponses(t *testing.T) {
	app := newApp(t)

	tests := []struct {
		name    string
		method  string
		path    string
		status  int
		message string
	}{
		{"unknown route", fiber.MethodGet, "/api/nowhere", fiber.StatusNotFound, "Not found"},
		{"wrong verb on register", fiber.MethodDelete, "/api/auth/register", fiber.StatusMethodNotAllowed, "Invalid request method"},
		{"wrong verb on categories", fiber.MethodPatch, "/api/categories", fiber.StatusMethodNotAllowed, "Invalid request method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var result map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
			assert.Equal(t, tt.message, result["error"])
		})
	}
}

var routeParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	app := newApp(t)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, route := range app.GetRoutes(true) {
		if route.Path == "/" || strings.HasPrefix(route.Path, "/swagger") || route.Method == fiber.MethodHead {
			continue
		}
		path := routeParam.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.Truef(t, ok, "%s is not documented", path) {
			continue
		}
		// The completion route answers every method but only POST does work.
		if path == "/api/contents/complete" && route.Method != fiber.MethodPost {
			continue
		}
		assert.Containsf(t, ops, strings.ToLower(route.Method), "%s %s is not documented", route.Method, path)
	}
}
