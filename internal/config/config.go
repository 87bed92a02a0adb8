// Package config loads server and client settings.
//
// Sources, lowest to highest precedence:
//   1. Built-in defaults.
//   2. A TOML file named by CONFIG_FILE (optional).
//   3. Environment variables, including those loaded from .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and the terminal client.
type Config struct {
	Port         string        `toml:"port"`
	LogLevel     string        `toml:"log_level"`
	LogFile      string        `toml:"log_file"`
	Env          string        `toml:"env"`
	ClientOrigin string        `toml:"client_origin"`
	JWTSecret    string        `toml:"jwt_secret"`
	TokenTTL     time.Duration `toml:"token_ttl"`
	CookieName   string        `toml:"cookie_name"`
	SessionTTL   time.Duration `toml:"session_ttl"`

	WordsFile string `toml:"words_file"`
	WordsDB   string `toml:"words_db"`

	// OperatorKeyHash is a bcrypt hash; empty disables /admin routes.
	OperatorKeyHash string `toml:"operator_key_hash"`

	// DailySalt keys the daily puzzle choice.
	DailySalt string `toml:"daily_salt"`
}

const devSecret = "dev_secret_change_me"

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:         "5175",
		LogLevel:     "info",
		Env:          "development",
		ClientOrigin: "http://localhost:5173",
		JWTSecret:    devSecret,
		TokenTTL:     24 * time.Hour,
		CookieName:   "wordle_session",
		SessionTTL:   2 * time.Hour,
		DailySalt:    "local_dev_salt",
	}
}

// Load builds a Config from defaults, CONFIG_FILE and the environment.
// A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto c.
func (c *Config) LoadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto c.
func (c *Config) ApplyEnv() error {
	setStr(&c.Port, "PORT")
	setStr(&c.LogLevel, "LOG_LEVEL")
	setStr(&c.LogFile, "LOG_FILE")
	setStr(&c.Env, "NODE_ENV")
	setStr(&c.ClientOrigin, "CLIENT_ORIGIN")
	setStr(&c.JWTSecret, "JWT_SECRET")
	setStr(&c.CookieName, "COOKIE_NAME")
	setStr(&c.WordsFile, "WORDS_ANSWERS_FILE")
	setStr(&c.WordsDB, "WORDS_DB")
	setStr(&c.OperatorKeyHash, "OPERATOR_KEY_HASH")
	setStr(&c.DailySalt, "DAILY_SALT")

	if v := os.Getenv("JWT_EXPIRES_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_HOURS: %w", err)
		}
		c.TokenTTL = time.Duration(n) * time.Hour
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Production() && (c.JWTSecret == "" || c.JWTSecret == devSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
