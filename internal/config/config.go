package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDir      = "MYTHINGS_DIR"
	EnvLogLevel = "MYTHINGS_LOG_LEVEL"
	EnvAddr     = "MYTHINGS_ADDR"
	EnvFrontURL = "MYTHINGS_FRONT_URL"
)

// Config holds application configuration
type Config struct {
	Dir      string
	LogLevel string
	Addr     string
	FrontURL string
	Theme    string // empty means use the stored preference
}

// Load reads an optional .env from the working directory, then the
// environment, then falls back to defaults.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a config from the current environment only.
func FromEnv() *Config {
	c := &Config{
		Dir:      getDefaultDir(),
		LogLevel: "info",
		Addr:     ":9000",
		FrontURL: "http://localhost:3000",
	}
	if v := strings.TrimSpace(os.Getenv(EnvDir)); v != "" {
		c.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFrontURL)); v != "" {
		c.FrontURL = v
	}
	return c
}

// WithDir sets a custom data directory
func (c *Config) WithDir(dir string) *Config {
	c.Dir = dir
	return c
}

func (c *Config) ItemsPath() string      { return filepath.Join(c.Dir, "items.json") }
func (c *Config) CategoriesPath() string { return filepath.Join(c.Dir, "categories.json") }
func (c *Config) PrefsPath() string      { return filepath.Join(c.Dir, "prefs.db") }
func (c *Config) ImagesDir() string      { return filepath.Join(c.Dir, "images") }
func (c *Config) LogPath() string        { return filepath.Join(c.Dir, "mythings.log") }
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Dir, "credentials.json")
}

// EnsureDir creates the data directory, owner-only.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

func getDefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mythings"
	}
	return filepath.Join(home, ".mythings")
}
