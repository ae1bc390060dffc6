package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Copy.ExtendedMime)
	assert.Equal(t, DefaultHelperDocument, cfg.Helper.Document)
	assert.Equal(t, DefaultBrowserTimeout, cfg.Browser.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
copy:
  extended_mime: true
browser:
  cdp_endpoint: http://localhost:9222
  timeout: 5s
logging:
  verbosity: quiet
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Copy.ExtendedMime)
	assert.Equal(t, "http://localhost:9222", cfg.Browser.CDPEndpoint)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout)
	assert.True(t, cfg.Logging.Quiet())
	assert.Equal(t, DefaultHelperJustification, cfg.Helper.Justification)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "copy: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing document", mutate: func(c *Config) { c.Helper.Document = "" }, wantErr: true},
		{name: "missing justification", mutate: func(c *Config) { c.Helper.Justification = "" }, wantErr: true},
		{name: "match does not cover document", mutate: func(c *Config) { c.Helper.DocumentMatch = "other://*" }, wantErr: true},
		{name: "bad glob", mutate: func(c *Config) { c.Helper.DocumentMatch = "[" }, wantErr: true},
		{name: "empty match uses exact document", mutate: func(c *Config) { c.Helper.DocumentMatch = "" }},
		{name: "negative timeout", mutate: func(c *Config) { c.Browser.Timeout = -time.Second }, wantErr: true},
		{name: "notice without url", mutate: func(c *Config) { c.Notice.URL = "" }, wantErr: true},
		{name: "notice disabled without url", mutate: func(c *Config) { c.Notice.Enabled = false; c.Notice.URL = "" }},
		{name: "bad verbosity", mutate: func(c *Config) { c.Logging.Verbosity = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHelperConfig_Matcher(t *testing.T) {
	matcher, err := Default().Helper.Matcher()
	require.NoError(t, err)

	assert.True(t, matcher.Match("tabcopy://helper/offscreen.html"))
	assert.True(t, matcher.Match("tabcopy://abc123/offscreen.html"))
	assert.False(t, matcher.Match("tabcopy://a/b/offscreen.html"))
	assert.False(t, matcher.Match("https://example.com/offscreen.html"))
}
