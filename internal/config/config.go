// Package config loads tenbuy settings from a TOML file with environment
// overrides for secrets. All settings are read once before a run starts and
// never reloaded mid-run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all tenbuy configuration.
type Config struct {
	General   GeneralConfig   `toml:"general"`
	Vendor    VendorConfig    `toml:"vendor"`
	Item      ItemConfig      `toml:"item"`
	Budget    BudgetConfig    `toml:"budget"`
	Browser   BrowserConfig   `toml:"browser"`
	Artifacts ArtifactsConfig `toml:"artifacts"`
	Daemon    DaemonConfig    `toml:"daemon"`
}

// GeneralConfig holds run-wide preferences.
type GeneralConfig struct {
	DryRun bool `toml:"dry_run"`
}

// VendorConfig identifies the vendor site and account.
type VendorConfig struct {
	BaseURL   string `toml:"base_url"`
	Email     string `toml:"email,omitempty"`
	FirstName string `toml:"first_name"`
}

// ItemConfig is the single purchase target.
type ItemConfig struct {
	URL      string  `toml:"url"`
	PriceILS float64 `toml:"price_ils"`
}

// BudgetConfig holds gate policy settings.
type BudgetConfig struct {
	// ExclusiveBoundary blocks a purchase whose price exactly equals the
	// remaining allowance. Off by default: spending down to zero is allowed.
	ExclusiveBoundary bool `toml:"exclusive_boundary"`
}

// BrowserConfig holds browsing context settings.
type BrowserConfig struct {
	UserDataDir    string `toml:"user_data_dir,omitempty"`
	Headless       bool   `toml:"headless"`
	NavTimeoutSec  int    `toml:"nav_timeout_sec"`
	StepTimeoutSec int    `toml:"step_timeout_sec"`
}

// ArtifactsConfig holds the confirmation artifact directories.
type ArtifactsConfig struct {
	ScreenshotsDir string `toml:"screenshots_dir,omitempty"`
	OrdersDir      string `toml:"orders_dir,omitempty"`
}

// DaemonConfig holds scheduler settings for `tenbuy daemon`.
type DaemonConfig struct {
	IntervalHours int    `toml:"interval_hours"`
	Addr          string `toml:"addr,omitempty"`
}

// DefaultConfig returns the default configuration. The item default is a
// Shufersal voucher worth 200 ILS.
func DefaultConfig() Config {
	return Config{
		Vendor: VendorConfig{
			BaseURL: "https://www.10bis.co.il/next/en/",
		},
		Item: ItemConfig{
			URL:      "https://www.10bis.co.il/next/en/restaurants/menu/delivery/26698/shufersal/?dishId=6552647",
			PriceILS: 200.00,
		},
		Browser: BrowserConfig{
			Headless:       true,
			NavTimeoutSec:  30,
			StepTimeoutSec: 15,
		},
		Daemon: DaemonConfig{
			IntervalHours: 24,
			Addr:          "127.0.0.1:8786",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tenbuy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tenbuy")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// StateDir returns the directory for the run journal and browser profile.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tenbuy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "tenbuy")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads .env plus the config file, returning defaults where unset.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return withDerivedDefaults(cfg), nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return withDerivedDefaults(cfg), nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetEmail returns the account email from env var or config, in that order.
func GetEmail(cfg Config) string {
	if email := strings.TrimSpace(os.Getenv("TENBUY_EMAIL")); email != "" {
		return email
	}
	return cfg.Vendor.Email
}

// JournalPath returns the run journal database path.
func JournalPath() string {
	return filepath.Join(StateDir(), "runs.db")
}

// NavTimeout returns the navigation timeout as a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Browser.NavTimeoutSec) * time.Second
}

// StepTimeout returns the per-stage element wait as a duration.
func (c Config) StepTimeout() time.Duration {
	return time.Duration(c.Browser.StepTimeoutSec) * time.Second
}

func withDerivedDefaults(cfg Config) Config {
	state := StateDir()
	if cfg.Browser.UserDataDir == "" {
		cfg.Browser.UserDataDir = filepath.Join(state, "profile")
	}
	if cfg.Artifacts.ScreenshotsDir == "" {
		cfg.Artifacts.ScreenshotsDir = filepath.Join(state, "screenshots")
	}
	if cfg.Artifacts.OrdersDir == "" {
		cfg.Artifacts.OrdersDir = filepath.Join(state, "orders")
	}
	return cfg
}
