package main

import (
	"os"
	"strconv"
)

// insecureSigningKey keeps development setups working when no secret is
// configured. Startup logs a warning when it is in use.
const insecureSigningKey = "your-secret-key-change-in-production"

// Config is the env-backed service configuration.
type Config struct {
	Addr            string
	SigningKey      string
	TokenExpiration int
	BcryptCost      int
	Issuer          string
	AuthScheme      string
	DataDir         string
	SuperAdminEmail string
	SuperAdminName  string
	Debug           bool

	insecureKey bool
}

// LoadConfig reads configuration from the environment.
func LoadConfig() *Config {
	cfg := &Config{
		Addr:            ":" + envString("SHOWROOM_PORT", "5000"),
		SigningKey:      envString("SHOWROOM_SIGNING_SECRET", ""),
		TokenExpiration: envInt("SHOWROOM_TOKEN_EXPIRATION_HOURS", 0),
		BcryptCost:      envInt("SHOWROOM_BCRYPT_COST", 0),
		Issuer:          envString("SHOWROOM_ISSUER", "showroom"),
		AuthScheme:      envString("SHOWROOM_AUTH_SCHEME", "Bearer"),
		DataDir:         envString("SHOWROOM_DATA_DIR", "data"),
		SuperAdminEmail: envString("SHOWROOM_SUPERADMIN_EMAIL", "admin@example.com"),
		SuperAdminName:  envString("SHOWROOM_SUPERADMIN_NAME", "Administrator"),
		Debug:           envBool("SHOWROOM_DEBUG"),
	}

	if cfg.SigningKey == "" {
		cfg.SigningKey = insecureSigningKey
		cfg.insecureKey = true
	}

	return cfg
}

// InsecureSigningKey reports whether the fallback secret is in use.
func (c *Config) InsecureSigningKey() bool { return c.insecureKey }

func (c *Config) GetSigningKey() string   { return c.SigningKey }
func (c *Config) GetTokenExpiration() int { return c.TokenExpiration }
func (c *Config) GetBcryptCost() int      { return c.BcryptCost }
func (c *Config) GetIssuer() string       { return c.Issuer }
func (c *Config) GetAuthScheme() string   { return c.AuthScheme }
func (c *Config) GetDataDir() string      { return c.DataDir }

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
