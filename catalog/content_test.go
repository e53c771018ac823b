package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentDefaultsToEmptyObject(t *testing.T) {
	app, _ := newCatalogApp(t)

	status, raw := doJSON(t, app, "GET", "/api/content/home", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "{}", string(raw))
}

func TestPutAndGetContent(t *testing.T) {
	app, _ := newCatalogApp(t)

	status, _ := doJSON(t, app, "PUT", "/api/content/about", `{"title":"About us","body":"We sell widgets"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, raw := doJSON(t, app, "GET", "/api/content/about", "")
	assert.Equal(t, fiber.StatusOK, status)

	content := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &content))
	assert.Equal(t, "About us", content["title"])
	assert.NotEmpty(t, content["updatedAt"])
}

func TestContentPageAllowlist(t *testing.T) {
	app, _ := newCatalogApp(t)

	status, _ := doJSON(t, app, "GET", "/api/content/secrets", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "PUT", "/api/content/secrets", `{"x":1}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestVisitorCounter(t *testing.T) {
	app, _ := newCatalogApp(t)

	status, raw := doJSON(t, app, "GET", "/api/visitors", "")
	assert.Equal(t, fiber.StatusOK, status)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(0), body["totalVisitors"])

	for i := 0; i < 3; i++ {
		status, raw = doJSON(t, app, "POST", "/api/visitors/track", "")
		assert.Equal(t, fiber.StatusOK, status)
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(3), body["totalVisitors"])

	status, raw = doJSON(t, app, "GET", "/api/visitors", "")
	assert.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(3), body["totalVisitors"])
}
