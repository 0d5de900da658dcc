package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var knownFacings = map[string]struct{}{
	"front": {},
	"rear":  {},
	"auto":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	parsed, err := url.Parse(c.Analysis.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("analysis.base_url %q is not an absolute URL", c.Analysis.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"analysis.upload_timeout": c.Analysis.UploadTimeout,
		"analysis.probe_timeout":  c.Analysis.ProbeTimeout,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCapture() error {
	if _, ok := knownFacings[c.Capture.PreferredFacing]; !ok {
		return fmt.Errorf("capture.preferred_facing must be one of front, rear, auto (got %q)", c.Capture.PreferredFacing)
	}
	if !strings.Contains(c.Capture.CanonicalType, "/") {
		return fmt.Errorf("capture.canonical_type %q is not a media type", c.Capture.CanonicalType)
	}
	return ensurePositiveMap(map[string]int{
		"capture.width":       c.Capture.Width,
		"capture.height":      c.Capture.Height,
		"capture.framerate":   c.Capture.Framerate,
		"capture.max_seconds": c.Capture.MaxSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
}

func (c *Config) validateAuth() error {
	if c.Auth.SignInDelayMillis < 0 {
		return errors.New("auth.sign_in_delay_ms must not be negative")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be greater than zero", key)
		}
	}
	return nil
}
