package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAuthAPIBaseURL is where the authentication service listens in local setups.
const DefaultAuthAPIBaseURL = "http://127.0.0.1:7000/api/auth/"

// AuthAPIConfig points the front end at the remote authentication API.
type AuthAPIConfig struct {
	// BaseURL is the prefix for register/, login/ and me/. A trailing slash is enforced.
	BaseURL string `env:"BASE_URL" envDefault:"http://127.0.0.1:7000/api/auth/"`

	// Timeout bounds each outbound call. Zero disables the client timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// Dev swaps the remote API for an in-process account store. Local development only.
	Dev DevAuthConfig `envPrefix:"DEV_"`
}

// DevAuthConfig seeds the in-process auth API used in local development.
type DevAuthConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Username string `env:"USERNAME" envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	Email    string `env:"EMAIL"    envDefault:""`
	Admin    bool   `env:"ADMIN"    envDefault:"false"`
}

// Sanitize fills in a usable seed account when dev auth is on but left blank.
func (c *DevAuthConfig) Sanitize() {
	if !c.Enabled {
		return
	}
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		c.Username = "dev"
	}
	if c.Password == "" {
		c.Password = "Dev#Passw0rd"
	}
	if c.Email = strings.TrimSpace(c.Email); c.Email == "" {
		c.Email = c.Username + "@example.com"
	}
}

// Sanitize normalises the base URL so endpoint paths can be appended directly.
func (c *AuthAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = DefaultAuthAPIBaseURL
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	c.Dev.Sanitize()
}

// SessionStoreMode selects the session store backend.
type SessionStoreMode string

const (
	// SessionStoreMemory keeps sessions in process memory (single instance, dev).
	SessionStoreMemory SessionStoreMode = "memory"
	// SessionStoreRedis keeps sessions in Redis so several instances can share them.
	SessionStoreRedis SessionStoreMode = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreMode.
func (m *SessionStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*m = SessionStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreMode: %q (valid options: memory, redis)", v)
	}
}

// SessionConfig controls how browser sessions are stored.
type SessionConfig struct {
	Store SessionStoreMode `env:"STORE" envDefault:"memory"`

	// TTL applies when the access token carries no usable exp claim.
	TTL time.Duration `env:"TTL" envDefault:"8h"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.Store == "" {
		c.Store = SessionStoreMemory
	}
	if c.TTL <= 0 {
		c.TTL = 8 * time.Hour
	}
	if strings.TrimSpace(c.KeyPrefix) == "" {
		c.KeyPrefix = "session:"
	}
}
