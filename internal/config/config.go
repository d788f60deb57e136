// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete ledgerlock configuration.
type Config struct {
	Security SecurityConfig `toml:"security"`
	Audit    AuditConfig    `toml:"audit"`
	Storage  StorageConfig  `toml:"storage"`
}

// SecurityConfig contains the authentication policy knobs.
type SecurityConfig struct {
	// MaxFailedAttempts is the number of consecutive PIN failures before
	// lockout. Clamped to [3, 10].
	MaxFailedAttempts int `toml:"max_failed_attempts"`
	// LockoutSeconds is the lockout duration. Clamped to [10, 300].
	LockoutSeconds int `toml:"lockout_seconds"`
	// AutoLockMinutes is the idle window before re-authentication is
	// required. Clamped to [1, 60].
	AutoLockMinutes int `toml:"auto_lock_minutes"`
	// MinPINLength and MaxPINLength bound acceptable PIN lengths.
	MinPINLength int `toml:"min_pin_length"`
	MaxPINLength int `toml:"max_pin_length"`
}

// AuditConfig contains audit log configuration.
type AuditConfig struct {
	// Enabled controls whether authentication events are logged.
	Enabled bool `toml:"enabled"`
	// LogPath is the audit log location (empty = <data_dir>/audit.log).
	LogPath string `toml:"log_path"`
}

// StorageConfig contains data location configuration.
type StorageConfig struct {
	// DataDir is where the secret store, key file, journal, and logs live
	// (empty = ~/.ledgerlock).
	DataDir string `toml:"data_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Security: SecurityConfig{
			MaxFailedAttempts: 5,
			LockoutSeconds:    30,
			AutoLockMinutes:   5,
			MinPINLength:      4,
			MaxPINLength:      6,
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// DataDir returns the resolved data directory.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ledgerlock"), nil
}

// AuditLogPath returns the resolved audit log path.
func (c *Config) AuditLogPath() (string, error) {
	if c.Audit.LogPath != "" {
		return c.Audit.LogPath, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.log"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ledgerlock", "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applies environment overrides, and clamps
// out-of-range values. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Clamp()
	return cfg, nil
}

// Save writes the config as TOML with owner-only permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// OVERRIDES AND VALIDATION
// =============================================================================

// ApplyEnvOverrides applies LEDGERLOCK_* environment variables on top of the
// loaded values. Unparsable values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v, ok := envInt("LEDGERLOCK_MAX_FAILED_ATTEMPTS"); ok {
		c.Security.MaxFailedAttempts = v
	}
	if v, ok := envInt("LEDGERLOCK_LOCKOUT_SECONDS"); ok {
		c.Security.LockoutSeconds = v
	}
	if v, ok := envInt("LEDGERLOCK_AUTO_LOCK_MINUTES"); ok {
		c.Security.AutoLockMinutes = v
	}
	if v := os.Getenv("LEDGERLOCK_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("LEDGERLOCK_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audit.Enabled = b
		}
	}
	if v := os.Getenv("LEDGERLOCK_AUDIT_LOG_PATH"); v != "" {
		c.Audit.LogPath = v
	}
}

// Clamp forces security values into their valid ranges. Clamping, rather
// than erroring, means a hand-edited config can weaken the policy only so
// far.
func (c *Config) Clamp() {
	c.Security.MaxFailedAttempts = clampInt(c.Security.MaxFailedAttempts, 3, 10)
	c.Security.LockoutSeconds = clampInt(c.Security.LockoutSeconds, 10, 300)
	c.Security.AutoLockMinutes = clampInt(c.Security.AutoLockMinutes, 1, 60)
	c.Security.MinPINLength = clampInt(c.Security.MinPINLength, 4, 8)
	c.Security.MaxPINLength = clampInt(c.Security.MaxPINLength, c.Security.MinPINLength, 12)
}

// LockoutDuration returns the lockout window as a duration.
func (c *Config) LockoutDuration() time.Duration {
	return time.Duration(c.Security.LockoutSeconds) * time.Second
}

// AutoLockThreshold returns the idle window as a duration.
func (c *Config) AutoLockThreshold() time.Duration {
	return time.Duration(c.Security.AutoLockMinutes) * time.Minute
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
