// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete inkwell configuration.
type Config struct {
	Version string `toml:"version"`

	// AI configuration
	AI AIConfig `toml:"ai"`

	// Editor configuration
	Editor EditorConfig `toml:"editor"`

	// History configuration
	History HistoryConfig `toml:"history"`

	// Telemetry configuration
	Telemetry TelemetryConfig `toml:"telemetry"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// AIConfig contains the chat-completions endpoint configuration.
type AIConfig struct {
	// APIKey is the bearer token for the endpoint.
	APIKey string `toml:"api_key"`
	// BaseURL is the endpoint base, e.g. https://api.moonshot.cn/v1
	BaseURL string `toml:"base_url"`
	// Model is the model name used for generation.
	Model string `toml:"model"`
	// Temperature controls output variance. Editing workloads want it low.
	Temperature float64 `toml:"temperature"`
	// MaxTokens caps the response length (0 = endpoint default).
	MaxTokens int `toml:"max_tokens"`
	// MaxRetries is the retry budget for transient transport errors.
	MaxRetries int `toml:"max_retries"`
}

// EditorConfig contains editor behavior configuration.
type EditorConfig struct {
	// AutosaveSecs is the draft autosave interval in seconds (0 = off).
	AutosaveSecs int `toml:"autosave_secs"`
	// DraftDir overrides where drafts are stored (empty = ~/.inkwell/drafts).
	DraftDir string `toml:"draft_dir"`
}

// HistoryConfig contains prompt history configuration.
type HistoryConfig struct {
	// Enabled controls whether submitted prompts are recorded.
	Enabled bool `toml:"enabled"`
	// MaxEntries caps the history length; older entries are dropped.
	MaxEntries int `toml:"max_entries"`
}

// TelemetryConfig contains local usage-stats configuration. Stats never
// leave the machine; they land in a local database for the user.
type TelemetryConfig struct {
	// Enabled controls whether session stats are recorded.
	Enabled bool `toml:"enabled"`
	// DBPath overrides the stats database path (empty = ~/.inkwell/usage.db).
	DBPath string `toml:"db_path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the color theme: "dark", "light", or "auto".
	Theme string `toml:"theme"`
	// Width caps the rendered width of the response panel (0 = terminal width).
	Width int `toml:"width"`
	// ShowDiffStats shows +N -N counts in the diff header.
	ShowDiffStats bool `toml:"show_diff_stats"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		AI: AIConfig{
			APIKey:      "",
			BaseURL:     "https://api.moonshot.cn/v1",
			Model:       "moonshot-v1-32k",
			Temperature: 0.3,
			MaxTokens:   0,
			MaxRetries:  3,
		},

		Editor: EditorConfig{
			AutosaveSecs: 30,
		},

		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 200,
		},

		Telemetry: TelemetryConfig{
			Enabled: true,
		},

		UI: UIConfig{
			Theme:         "dark",
			Width:         0,
			ShowDiffStats: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the inkwell configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".inkwell"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on the config
// file. It holds the API key, so anything looser than 0600 gets fixed.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", info.Mode().Perm(), err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to
// defaults when no file exists. Environment overrides apply last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file with full
// validation, for the --config flag.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = defaults.AI.BaseURL
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaults.AI.Model
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = defaults.AI.Temperature
	}
	if cfg.AI.MaxRetries == 0 {
		cfg.AI.MaxRetries = defaults.AI.MaxRetries
	}

	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = defaults.History.MaxEntries
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600
// permissions; the file holds the API key.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# inkwell configuration file")
	fmt.Fprintln(file, "# Generated by inkwell - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects all validation failures.
type ValidateErrors []ValidationError

// Error implements the error interface.
func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.AI.BaseURL != "" {
		if u, err := url.Parse(c.AI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{"ai.base_url", "must be a valid absolute URL"})
		}
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs = append(errs, ValidationError{"ai.temperature", "must be between 0 and 2"})
	}
	if c.AI.MaxTokens < 0 {
		errs = append(errs, ValidationError{"ai.max_tokens", "must be non-negative"})
	}
	if c.AI.MaxRetries < 0 || c.AI.MaxRetries > 10 {
		errs = append(errs, ValidationError{"ai.max_retries", "must be between 0 and 10"})
	}

	if c.Editor.AutosaveSecs < 0 {
		errs = append(errs, ValidationError{"editor.autosave_secs", "must be non-negative"})
	}

	if c.History.MaxEntries < 1 {
		errs = append(errs, ValidationError{"history.max_entries", "must be at least 1"})
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{"ui.theme", `must be "dark", "light", or "auto"`})
	}
	if c.UI.Width < 0 {
		errs = append(errs, ValidationError{"ui.width", "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - INKWELL_API_KEY: overrides ai.api_key
//   - INKWELL_BASE_URL: overrides ai.base_url
//   - INKWELL_MODEL: overrides ai.model
//   - INKWELL_THEME: overrides ui.theme
//   - INKWELL_TELEMETRY: "0" or "false" disables telemetry
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("INKWELL_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	if base := os.Getenv("INKWELL_BASE_URL"); base != "" {
		c.AI.BaseURL = base
	}
	if model := os.Getenv("INKWELL_MODEL"); model != "" {
		c.AI.Model = model
	}
	if theme := os.Getenv("INKWELL_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if telemetry := os.Getenv("INKWELL_TELEMETRY"); telemetry != "" {
		if v, err := strconv.ParseBool(telemetry); err == nil {
			c.Telemetry.Enabled = v
		}
	}
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// DraftDir returns the draft storage directory.
func (c *Config) DraftDir() (string, error) {
	if c.Editor.DraftDir != "" {
		return c.Editor.DraftDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drafts"), nil
}

// TelemetryDBPath returns the usage-stats database path.
func (c *Config) TelemetryDBPath() (string, error) {
	if c.Telemetry.DBPath != "" {
		return c.Telemetry.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "usage.db"), nil
}

// =============================================================================
// GLOBAL CONFIG (THREAD-SAFE)
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// ReloadGlobal re-reads the config file into the global config.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
	return nil
}

// SetGlobal replaces the global config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global config.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalCfg = nil
	globalMu.Unlock()
}
