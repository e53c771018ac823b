package showroom_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	showroom "github.com/goliatone/go-showroom"
	"github.com/goliatone/go-showroom/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(t *testing.T, accounts showroom.AccountStore, at time.Time) *fiber.App {
	t.Helper()

	tokens := showroom.NewTokenService(testSigningKey, 0, "showroom", nil).
		WithClock(fixedClock(at))
	auth := showroom.NewAuthenticator(accounts, tokens).
		WithClock(fixedClock(at)).
		WithBcryptCost(testBcryptCost)

	authenticated := middleware.Authenticated(middleware.Config{Validator: tokens})

	app := fiber.New()
	showroom.RegisterAuthRoutes(app.Group("/api/auth"), showroom.NewAuthController(auth), authenticated)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return res.StatusCode, out
}

func TestLoginPost(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	account := rotatedAccount(t, createdAt)
	app := newAuthApp(t, newMemoryAccounts(account), createdAt.Add(time.Hour))

	status, body := postJSON(t, app,
		"/api/auth/login",
		`{"email":"rotated@acme.test","password":"Rotated1Pass!"}`,
		"")

	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, account.ID, user["id"])
	// The public profile never carries the hash.
	assert.NotContains(t, user, "password")
}

func TestLoginPostInvalidCredentials(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	app := newAuthApp(t, newMemoryAccounts(rotatedAccount(t, createdAt)), createdAt.Add(time.Hour))

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "Wrong password",
			body: `{"email":"rotated@acme.test","password":"wrong"}`,
			want: fiber.StatusUnauthorized,
		},
		{
			name: "Unknown email",
			body: `{"email":"nobody@acme.test","password":"Rotated1Pass!"}`,
			want: fiber.StatusUnauthorized,
		},
		{
			name: "Missing password",
			body: `{"email":"rotated@acme.test"}`,
			want: fiber.StatusBadRequest,
		},
		{
			name: "Malformed body",
			body: `{`,
			want: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestLoginPostMustChangePassword(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	account := provisionedAccount(t, createdAt)
	app := newAuthApp(t, newMemoryAccounts(account), createdAt.Add(time.Hour))

	status, body := postJSON(t, app,
		"/api/auth/login",
		`{"email":"admin@acme.test","password":"12345"}`,
		"")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["mustChangePassword"])
	assert.Equal(t, account.ID, body["userId"])
	assert.Empty(t, body["token"])
}

func TestLoginPostAutoDisabled(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	accounts := newMemoryAccounts(provisionedAccount(t, createdAt))
	app := newAuthApp(t, accounts, createdAt.Add(25*time.Hour))

	status, body := postJSON(t, app,
		"/api/auth/login",
		`{"email":"admin@acme.test","password":"12345"}`,
		"")

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.NotEmpty(t, body["error"])
}

func TestChangePasswordPost(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := createdAt.Add(time.Hour)
	account := rotatedAccount(t, createdAt)
	accounts := newMemoryAccounts(account)
	app := newAuthApp(t, accounts, at)

	status, body := postJSON(t, app,
		"/api/auth/change-password",
		`{"userId":"`+account.ID+`","currentPassword":"Rotated1Pass!","newPassword":"Fresh1Pass!"}`,
		"")

	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	stored := accounts.get(account.ID)
	assert.NoError(t, showroom.ComparePasswordAndHash("Fresh1Pass!", stored.PasswordHash))
}

// A provisioned account holds no token until it rotates its default
// credential, so the whole flow has to work over the public routes alone.
func TestForcedRotationFlow(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := createdAt.Add(time.Hour)
	account := provisionedAccount(t, createdAt)
	accounts := newMemoryAccounts(account)
	app := newAuthApp(t, accounts, at)

	status, body := postJSON(t, app,
		"/api/auth/login",
		`{"email":"admin@acme.test","password":"12345"}`,
		"")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["mustChangePassword"])
	require.Empty(t, body["token"])

	userID, _ := body["userId"].(string)
	require.NotEmpty(t, userID)

	status, body = postJSON(t, app,
		"/api/auth/change-password",
		`{"userId":"`+userID+`","currentPassword":"12345","newPassword":"Fresh1Pass!"}`,
		"")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	stored := accounts.get(account.ID)
	assert.False(t, stored.MustChangePassword)

	// The rotated credential now yields a normal session.
	status, body = postJSON(t, app,
		"/api/auth/login",
		`{"email":"admin@acme.test","password":"Fresh1Pass!"}`,
		"")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestChangePasswordPostWrongCurrentPassword(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	account := rotatedAccount(t, createdAt)
	app := newAuthApp(t, newMemoryAccounts(account), createdAt.Add(time.Hour))

	status, body := postJSON(t, app,
		"/api/auth/change-password",
		`{"userId":"`+account.ID+`","currentPassword":"wrong","newPassword":"Fresh1Pass!"}`,
		"")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])
}

func TestChangePasswordPostMissingUserID(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	app := newAuthApp(t, newMemoryAccounts(rotatedAccount(t, createdAt)), createdAt.Add(time.Hour))

	status, _ := postJSON(t, app,
		"/api/auth/change-password",
		`{"currentPassword":"Rotated1Pass!","newPassword":"Fresh1Pass!"}`,
		"")

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestChangePasswordPostWeakPassword(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	account := rotatedAccount(t, createdAt)
	app := newAuthApp(t, newMemoryAccounts(account), createdAt.Add(time.Hour))

	status, body := postJSON(t, app,
		"/api/auth/change-password",
		`{"userId":"`+account.ID+`","currentPassword":"Rotated1Pass!","newPassword":"weak"}`,
		"")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestMe(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := createdAt.Add(time.Hour)
	account := rotatedAccount(t, createdAt)
	app := newAuthApp(t, newMemoryAccounts(account), at)

	tokens := showroom.NewTokenService(testSigningKey, 0, "showroom", nil).
		WithClock(fixedClock(at))
	token, err := tokens.Generate(account)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, account.ID, body["id"])
	assert.Equal(t, account.Email, body["email"])
	assert.NotContains(t, body, "password")
}

func TestMeAutoDisablesLapsedAccount(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := createdAt.Add(25 * time.Hour)
	account := provisionedAccount(t, createdAt)
	accounts := newMemoryAccounts(account)
	app := newAuthApp(t, accounts, at)

	tokens := showroom.NewTokenService(testSigningKey, 0, "showroom", nil).
		WithClock(fixedClock(at))
	token, err := tokens.Generate(account)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	stored := accounts.get(account.ID)
	assert.False(t, stored.IsActive)
}

func TestMeWithoutToken(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	app := newAuthApp(t, newMemoryAccounts(rotatedAccount(t, createdAt)), createdAt.Add(time.Hour))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
