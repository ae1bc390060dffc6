// Package config loads the tabcopy configuration file.
//
// The configuration is read once at startup and handed to the components that
// need it. It is never written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Default values for the configuration file.
const (
	DefaultHelperDocument      = "tabcopy://helper/offscreen.html"
	DefaultHelperMatch         = "tabcopy://*/offscreen.html"
	DefaultHelperJustification = "Read from and write to the clipboard for copied tab URLs"
	DefaultNoticeURL           = "https://github.com/entrhq/tabcopy/releases"
	DefaultBrowserTimeout      = 30 * time.Second
)

// Verbosity levels for LoggingConfig.
const (
	VerbosityQuiet  = "quiet"
	VerbosityNormal = "normal"
	VerbosityDebug  = "debug"
)

// Config is the complete tabcopy configuration.
type Config struct {
	Copy    CopyConfig    `yaml:"copy" json:"copy"`
	Helper  HelperConfig  `yaml:"helper" json:"helper"`
	Browser BrowserConfig `yaml:"browser" json:"browser"`
	Notice  NoticeConfig  `yaml:"notice" json:"notice"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CopyConfig controls how copied text is published.
type CopyConfig struct {
	// ExtendedMime also publishes an HTML flavour of the copied text
	ExtendedMime bool `yaml:"extended_mime" json:"extended_mime"`
}

// HelperConfig describes the clipboard helper document.
type HelperConfig struct {
	// Document is the URL the helper document is created with
	Document string `yaml:"document" json:"document"`

	// DocumentMatch is a glob matched against context URLs to find a live helper
	DocumentMatch string `yaml:"document_match" json:"document_match"`

	// Justification is shown by the host when the helper is created
	Justification string `yaml:"justification" json:"justification"`
}

// BrowserConfig describes how tabs are reached.
type BrowserConfig struct {
	// CDPEndpoint connects to a running Chromium, e.g. http://localhost:9222.
	// When empty a new browser is launched.
	CDPEndpoint string `yaml:"cdp_endpoint" json:"cdp_endpoint"`

	Headless bool          `yaml:"headless" json:"headless"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// NoticeConfig controls the update notification.
type NoticeConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	URL     string `yaml:"url" json:"url"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Helper: HelperConfig{
			Document:      DefaultHelperDocument,
			DocumentMatch: DefaultHelperMatch,
			Justification: DefaultHelperJustification,
		},
		Browser: BrowserConfig{
			Timeout: DefaultBrowserTimeout,
		},
		Notice: NoticeConfig{
			Enabled: true,
			URL:     DefaultNoticeURL,
		},
		Logging: LoggingConfig{
			Verbosity: VerbosityNormal,
		},
	}
}

// DefaultPath returns ~/.tabcopy/config.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tabcopy", "config.yaml"), nil
}

// Load reads the configuration at path on top of the defaults.
// An empty path means DefaultPath; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Helper.Document == "" {
		return fmt.Errorf("helper.document is required")
	}
	if c.Helper.Justification == "" {
		return fmt.Errorf("helper.justification is required")
	}

	matcher, err := c.Helper.Matcher()
	if err != nil {
		return err
	}
	if !matcher.Match(c.Helper.Document) {
		return fmt.Errorf("helper.document_match %q does not match helper.document %q", c.Helper.DocumentMatch, c.Helper.Document)
	}

	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser.timeout must not be negative, got %v", c.Browser.Timeout)
	}

	if c.Notice.Enabled && c.Notice.URL == "" {
		return fmt.Errorf("notice.url is required when notice.enabled is set")
	}

	switch c.Logging.Verbosity {
	case "", VerbosityQuiet, VerbosityNormal, VerbosityDebug:
	default:
		return fmt.Errorf("invalid logging.verbosity: %s (must be quiet, normal or debug)", c.Logging.Verbosity)
	}

	return nil
}

// Matcher compiles DocumentMatch, falling back to an exact match on Document.
func (h HelperConfig) Matcher() (glob.Glob, error) {
	pattern := h.DocumentMatch
	if pattern == "" {
		pattern = glob.QuoteMeta(h.Document)
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid helper.document_match %q: %w", pattern, err)
	}
	return g, nil
}

// Quiet reports whether debug logging is suppressed.
func (l LoggingConfig) Quiet() bool {
	return l.Verbosity == VerbosityQuiet
}
