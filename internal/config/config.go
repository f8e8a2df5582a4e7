// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/pratik0310/Maverick-Ai/internal/model"
	"github.com/pratik0310/Maverick-Ai/internal/util"
)

// ErrNotConfigured is returned when no Gemini API key is available from the
// config file, the environment, or a .env file.
var ErrNotConfigured = errors.New("gemini API key not configured")

// Theme values accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Backend values accepted by gemini.backend.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// DefaultBaseURL is the Generative Language API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the complete application configuration.
type Config struct {
	Gemini  GeminiConfig  `toml:"gemini"`
	Speech  SpeechConfig  `toml:"speech"`
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
}

// GeminiConfig configures the generation API.
type GeminiConfig struct {
	// APIKey is sent as the key query parameter. Prefer GEMINI_API_KEY.
	APIKey string `toml:"api_key"`
	// Model is the model ID, e.g. "gemini-1.5-flash"
	Model string `toml:"model"`
	// BaseURL is the API root; the model path is appended to it
	BaseURL string `toml:"base_url"`
	// Backend selects the transport: "rest" or "sdk"
	Backend string `toml:"backend"`
	// TimeoutSecs bounds a single request, including reading the body
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute limits outbound calls; 0 disables limiting
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// SpeechConfig configures text-to-speech playback.
type SpeechConfig struct {
	Enabled bool `toml:"enabled"`
	// Command overrides engine detection; the text is passed as the last argument
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme"`
	// Markdown renders model replies with glamour
	Markdown bool `toml:"markdown"`
	// ExportDir is where ctrl+e transcripts are written; empty means the config dir
	ExportDir string `toml:"export_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File is the log sink; "-" means stderr
	File string `toml:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	logFile := "-"
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "maverick.log")
	}

	return &Config{
		Gemini: GeminiConfig{
			Model:             model.DefaultModel,
			BaseURL:           DefaultBaseURL,
			Backend:           BackendREST,
			TimeoutSecs:       60,
			RequestsPerMinute: 0,
		},
		Speech: SpeechConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Theme:    ThemeAuto,
			Markdown: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   logFile,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the maverick configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".maverick"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ensureSecurePermissions tightens a config file that may hold an API key to
// owner read/write.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the TOML file at path (the
// default location when empty), .env files and environment overrides, then
// validates it. A missing config file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err := LoadDotEnv(".env", filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep the
// values already in cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		slog.Warn("could not ensure secure permissions on config", "path", path, "error", err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}
	return nil
}

// LoadDotEnv loads each existing .env file into the process environment.
// Variables already set are not overwritten, so the real environment wins.
func LoadDotEnv(paths ...string) error {
	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true

		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			return fmt.Errorf("failed to load %s: %w", abs, err)
		}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path with owner-only permissions. The write is
// atomic so a crash never leaves a truncated config behind.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# maverick configuration file")
	fmt.Fprintln(&buf, "# Set GEMINI_API_KEY in the environment or a .env file instead of api_key.")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
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

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field and returns a ValidateErrors listing all
// problems, or nil. A missing API key is not a validation error; see
// RequireAPIKey.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Gemini.Model) == "" {
		errs = append(errs, ValidationError{Field: "gemini.model", Message: "must not be empty"})
	}

	if u, err := url.Parse(c.Gemini.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "gemini.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.Gemini.BaseURL),
		})
	}

	switch strings.ToLower(c.Gemini.Backend) {
	case BackendREST, BackendSDK:
	default:
		errs = append(errs, ValidationError{
			Field:   "gemini.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: rest, sdk", c.Gemini.Backend),
		})
	}

	if c.Gemini.TimeoutSecs <= 0 || c.Gemini.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "gemini.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Gemini.TimeoutSecs),
		})
	}

	if c.Gemini.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "gemini.requests_per_minute",
			Message: fmt.Sprintf("must not be negative, got %d", c.Gemini.RequestsPerMinute),
		})
	}

	switch strings.ToLower(c.UI.Theme) {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json", "color":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, json, color", c.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings reports settings that are accepted but probably mistaken. An
// unknown gemini.model is passed to the API as-is, so it only warrants a
// warning.
func (c *Config) Warnings() []string {
	var warnings []string
	if id := strings.TrimSpace(c.Gemini.Model); id != "" {
		if _, ok := model.GetModelInfo(id); !ok {
			warnings = append(warnings, fmt.Sprintf("gemini.model %q is not a known model (known: %s)",
				id, strings.Join(model.ModelIDs(), ", ")))
		}
	}
	return warnings
}

// RequireAPIKey returns ErrNotConfigured when no API key is set.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return ErrNotConfigured
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - MAVERICK_GEMINI_API_KEY, then GEMINI_API_KEY: gemini.api_key
//   - MAVERICK_MODEL: gemini.model
//   - MAVERICK_BASE_URL: gemini.base_url
//   - MAVERICK_BACKEND: gemini.backend
//   - MAVERICK_TIMEOUT_SECS: gemini.timeout_secs
//   - MAVERICK_THEME: ui.theme
//   - MAVERICK_SPEECH: speech.enabled
//   - MAVERICK_SPEECH_COMMAND: speech.command
//   - MAVERICK_LOG_LEVEL, MAVERICK_LOG_FORMAT, MAVERICK_LOG_FILE: logging.*
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("MAVERICK_GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}

	if v := os.Getenv("MAVERICK_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("MAVERICK_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := os.Getenv("MAVERICK_BACKEND"); v != "" {
		c.Gemini.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("MAVERICK_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Gemini.TimeoutSecs = n
		}
	}
	if v := os.Getenv("MAVERICK_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("MAVERICK_SPEECH"); v != "" {
		c.Speech.Enabled = parseBool(v)
	}
	if v := os.Getenv("MAVERICK_SPEECH_COMMAND"); v != "" {
		c.Speech.Command = v
	}
	if v := os.Getenv("MAVERICK_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MAVERICK_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("MAVERICK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ResolvedExportDir returns ui.export_dir, falling back to the config
// directory and then the working directory.
func (c *Config) ResolvedExportDir() string {
	if c.UI.ExportDir != "" {
		return c.UI.ExportDir
	}
	if dir, err := ConfigDir(); err == nil {
		return dir
	}
	return "."
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Speech.Args = append([]string(nil), c.Speech.Args...)
	return &clone
}
