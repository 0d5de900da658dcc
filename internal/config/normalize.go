package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeCapture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SpoolDir) == "" {
		c.Paths.SpoolDir = defaultSpoolDir
	}
	if c.Paths.SpoolDir, err = expandPath(c.Paths.SpoolDir); err != nil {
		return fmt.Errorf("paths.spool_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.BaseURL = strings.TrimRight(strings.TrimSpace(c.Analysis.BaseURL), "/")
	if c.Analysis.BaseURL == "" {
		if value, ok := os.LookupEnv("FIXIFY_ANALYSIS_URL"); ok {
			c.Analysis.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = defaultAnalysisBaseURL
	}
	if c.Analysis.UploadTimeout <= 0 {
		c.Analysis.UploadTimeout = defaultUploadTimeout
	}
	if c.Analysis.ProbeTimeout <= 0 {
		c.Analysis.ProbeTimeout = defaultProbeTimeout
	}
	c.Analysis.VideoFieldName = strings.TrimSpace(c.Analysis.VideoFieldName)
	if c.Analysis.VideoFieldName == "" {
		c.Analysis.VideoFieldName = defaultVideoFieldName
	}
	c.Analysis.VideoFileName = strings.TrimSpace(c.Analysis.VideoFileName)
	if c.Analysis.VideoFileName == "" {
		c.Analysis.VideoFileName = defaultVideoFileName
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.Device = strings.TrimSpace(c.Capture.Device)
	c.Capture.PreferredFacing = strings.ToLower(strings.TrimSpace(c.Capture.PreferredFacing))
	if c.Capture.PreferredFacing == "" {
		c.Capture.PreferredFacing = defaultFacing
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = defaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = defaultCaptureHeight
	}
	if c.Capture.Framerate <= 0 {
		c.Capture.Framerate = defaultCaptureFramerate
	}
	containers := make([]string, 0, len(c.Capture.Containers))
	for _, container := range c.Capture.Containers {
		trimmed := strings.ToLower(strings.TrimSpace(container))
		if trimmed != "" {
			containers = append(containers, trimmed)
		}
	}
	if len(containers) == 0 {
		containers = defaultContainers()
	}
	c.Capture.Containers = containers
	c.Capture.CanonicalType = strings.ToLower(strings.TrimSpace(c.Capture.CanonicalType))
	if c.Capture.CanonicalType == "" {
		c.Capture.CanonicalType = defaultCanonicalType
	}
	if c.Capture.MaxSeconds <= 0 {
		c.Capture.MaxSeconds = defaultCaptureMaxSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
