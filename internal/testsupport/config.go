// Package testsupport provides shared helpers for package tests: temp-backed
// configurations, synthetic acquisition clips, and pre-seeded session
// documents.
package testsupport

import (
	"path/filepath"
	"testing"

	"amznas/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in unique temp directories per test. It
// loads defaults the same way the CLI does and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg, _, _, err := config.Load(filepath.Join(base, "no-config.toml"))
	if err != nil {
		t.Fatalf("config.Load defaults: %v", err)
	}
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithDefaults sets the default language and researcher codes.
func WithDefaults(lang, researcher string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Defaults.Lang = lang
		cfg.Defaults.Researcher = researcher
	}
}

// WithDeviceVersion overrides the hardware revision.
func WithDeviceVersion(version string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Recorder.DeviceVersion = version
	}
}
