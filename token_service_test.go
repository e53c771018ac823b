package showroom_test

import (
	"testing"
	"time"

	showroom "github.com/goliatone/go-showroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func testAccount() *showroom.Account {
	return &showroom.Account{
		ID:       "acc-123",
		FullName: "Test Admin",
		Email:    "test@acme.test",
		Role:     showroom.RoleAdmin,
		IsActive: true,
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := showroom.NewTokenService(testSigningKey, 0, "showroom", nil).
		WithClock(fixedClock(now))

	token, err := ts.Generate(testAccount())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, "acc-123", claims.AccountID())
	assert.Equal(t, "test@acme.test", claims.Email())
	assert.Equal(t, showroom.RoleAdmin, claims.Role())
	assert.True(t, claims.IsAtLeast(showroom.RoleAdmin))
	assert.False(t, claims.IsAtLeast(showroom.RoleSuperAdmin))
	assert.True(t, claims.IssuedAt().Equal(now))
	assert.True(t, claims.Expires().Equal(now.Add(time.Duration(showroom.DefaultTokenExpiration)*time.Hour)))
}

func TestTokenServiceValidateFailures(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := showroom.NewTokenService(testSigningKey, 0, "showroom", nil).
		WithClock(fixedClock(issued))

	token, err := ts.Generate(testAccount())
	require.NoError(t, err)

	otherKey := showroom.NewTokenService([]byte("some-other-key"), 0, "showroom", nil).
		WithClock(fixedClock(issued))
	otherIssuer := showroom.NewTokenService(testSigningKey, 0, "someone-else", nil).
		WithClock(fixedClock(issued))
	expired := showroom.NewTokenService(testSigningKey, 0, "showroom", nil).
		WithClock(fixedClock(issued.Add(8 * 24 * time.Hour)))

	tests := []struct {
		name    string
		service showroom.TokenService
		token   string
	}{
		{
			name:    "Tampered token",
			service: ts,
			token:   token + "x",
		},
		{
			name:    "Garbage token",
			service: ts,
			token:   "not.a.token",
		},
		{
			name:    "Empty token",
			service: ts,
			token:   "",
		},
		{
			name:    "Wrong signing key",
			service: otherKey,
			token:   token,
		},
		{
			name:    "Wrong issuer",
			service: otherIssuer,
			token:   token,
		},
		{
			name:    "Expired token",
			service: expired,
			token:   token,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.service.Validate(tt.token)
			assert.Nil(t, claims)
			// Every failure mode reports the same sentinel.
			assert.ErrorIs(t, err, showroom.ErrInvalidToken)
		})
	}
}

type stubConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
}

func (c stubConfig) GetSigningKey() string   { return c.signingKey }
func (c stubConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c stubConfig) GetBcryptCost() int      { return testBcryptCost }
func (c stubConfig) GetIssuer() string       { return c.issuer }
func (c stubConfig) GetAuthScheme() string   { return "Bearer" }
func (c stubConfig) GetDataDir() string      { return "data" }

func TestTokenServiceFromConfig(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var cfg showroom.Config = stubConfig{
		signingKey:      string(testSigningKey),
		tokenExpiration: 3,
		issuer:          "showroom",
	}

	ts := showroom.NewTokenServiceFromConfig(cfg, nil).
		WithClock(fixedClock(now))

	token, err := ts.Generate(testAccount())
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", claims.AccountID())
	assert.True(t, claims.Expires().Equal(now.Add(3*time.Hour)))

	// Tokens minted under the config key stay opaque to other services.
	other := showroom.NewTokenService([]byte("some-other-key"), 0, "showroom", nil).
		WithClock(fixedClock(now))
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, showroom.ErrInvalidToken)
}

func TestTokenServiceCustomExpiration(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := showroom.NewTokenService(testSigningKey, 2, "showroom", nil).
		WithClock(fixedClock(now))

	token, err := ts.Generate(testAccount())
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.Expires().Equal(now.Add(2*time.Hour)))
}

func TestTokenServiceGenerateNilAccount(t *testing.T) {
	ts := showroom.NewTokenService(testSigningKey, 0, "showroom", nil)

	_, err := ts.Generate(nil)
	assert.Error(t, err)
}
