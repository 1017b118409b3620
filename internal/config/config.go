package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	ConfirmDelete bool `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Storage
	StorageDriver    string `yaml:"storage_driver" json:"storage_driver"`         // sqlite or postgres
	StorageDSN       string `yaml:"storage_dsn" json:"storage_dsn"`               // file path for sqlite, URL for postgres
	StorageQuota     int64  `yaml:"storage_quota" json:"storage_quota"`           // bytes, 0 = unlimited
	FallbackDir      string `yaml:"fallback_dir" json:"fallback_dir"`             // low-capacity substitute store
	FallbackMaxBytes int64  `yaml:"fallback_max_bytes" json:"fallback_max_bytes"` // per value

	// Session
	SessionTimeout time.Duration `yaml:"session_timeout" json:"session_timeout"`

	// Image defaults for completion photos and cards
	ImageQuality  float64 `yaml:"image_quality" json:"image_quality"`
	ImageMaxWidth int     `yaml:"image_max_width" json:"image_max_width"`
	ImageFormat   string  `yaml:"image_format" json:"image_format"`

	// Server
	ServerAddr       string   `yaml:"server_addr" json:"server_addr"`
	AssetOrigin      string   `yaml:"asset_origin" json:"asset_origin"`
	CoreAssets       []string `yaml:"core_assets" json:"core_assets"`
	DynamicCacheSize int      `yaml:"dynamic_cache_size" json:"dynamic_cache_size"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.lifelist
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lifelist"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	base, _ := Dir()
	join := func(parts ...string) string {
		if base == "" {
			return ""
		}
		return filepath.Join(append([]string{base}, parts...)...)
	}

	return &Config{
		ConfirmDelete:    true,
		StorageDriver:    getEnv("LIFELIST_STORAGE_DRIVER", "sqlite"),
		StorageDSN:       getEnv("LIFELIST_STORAGE_DSN", join("lifelist.db")),
		StorageQuota:     getEnvInt("LIFELIST_STORAGE_QUOTA", 5*1024*1024),
		FallbackDir:      getEnv("LIFELIST_FALLBACK_DIR", join("fallback")),
		FallbackMaxBytes: getEnvInt("LIFELIST_FALLBACK_MAX_BYTES", 64*1024),
		SessionTimeout:   getEnvDuration("LIFELIST_SESSION_TIMEOUT", 30*time.Minute),
		ImageQuality:     0.7,
		ImageMaxWidth:    1200,
		ImageFormat:      "jpeg",
		ServerAddr:       getEnv("LIFELIST_ADDR", ":8080"),
		AssetOrigin:      getEnv("LIFELIST_ASSET_ORIGIN", ""),
		CoreAssets: []string{
			"/", "/index.html", "/styles.css", "/app.js", "/manifest.json", "/icons/icon-192.png",
		},
		DynamicCacheSize: 50,
		LogLevel:         getEnv("LIFELIST_LOG_LEVEL", "INFO"),
		LogFile:          getEnv("LIFELIST_LOG_FILE", join("logs", "lifelist.log")),
		LogConsole:       getEnv("LIFELIST_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.lifelist/config.yaml after pulling LIFELIST_*
// variables from ~/.lifelist/.env and ./.env into the environment.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := LoadEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadEnv reads dotenv files in order. Missing files are skipped and variables
// already set in the process environment win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFile reads a config file, returning defaults when it does not exist
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the app cannot run with
func (c *Config) Validate() error {
	switch strings.ToLower(c.StorageDriver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported storage_driver %q (want sqlite or postgres)", c.StorageDriver)
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 1 {
		return fmt.Errorf("image_quality must be in (0, 1], got %v", c.ImageQuality)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("session_timeout must be positive")
	}
	return nil
}

// Save saves config to ~/.lifelist/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config as YAML
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
