package config

import (
	"fmt"
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`^[a-z]{3}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecorder(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRecorder() error {
	switch c.Recorder.DeviceVersion {
	case "1", "2":
	default:
		return fmt.Errorf("recorder.device_version must be \"1\" or \"2\", got %q", c.Recorder.DeviceVersion)
	}
	if c.Recorder.SampleRate <= 0 {
		return fmt.Errorf("recorder.sample_rate must be positive, got %d", c.Recorder.SampleRate)
	}
	return nil
}

func (c *Config) validateDefaults() error {
	for field, value := range map[string]string{
		"defaults.lang":       c.Defaults.Lang,
		"defaults.researcher": c.Defaults.Researcher,
	} {
		if strings.TrimSpace(value) == "" {
			continue // optional; the CLI flag must be supplied instead
		}
		if !identPattern.MatchString(value) {
			return fmt.Errorf("%s must be a 3-letter code, got %q", field, value)
		}
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if c.Display.Cutoff <= 0 {
		return fmt.Errorf("display.cutoff must be positive, got %d", c.Display.Cutoff)
	}
	if c.Display.Order <= 0 {
		return fmt.Errorf("display.order must be positive, got %d", c.Display.Order)
	}
	return nil
}
