package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"fixify/internal/config"
	"fixify/internal/logging"
	"fixify/internal/reports"
	"fixify/internal/services"
)

const userAgent = "Fixify-Go/0.1.0"

// DefaultUploadTimeout bounds a single analysis upload. Uploads that exceed
// it are aborted and surfaced as timeouts, not left hanging.
const DefaultUploadTimeout = 120 * time.Second

// DefaultProbeTimeout bounds the lightweight connectivity checks.
const DefaultProbeTimeout = 10 * time.Second

// Client talks to the remote video analysis service. Construct one per
// daemon with NewClient; it carries no global state.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	uploadTimeout time.Duration
	probeTimeout  time.Duration
	fieldName     string
	fileName      string
	contentType   string
	logger        *slog.Logger
}

// NewClient builds an analysis client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	uploadTimeout := time.Duration(cfg.Analysis.UploadTimeout) * time.Second
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	probeTimeout := time.Duration(cfg.Analysis.ProbeTimeout) * time.Second
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}

	fieldName := strings.TrimSpace(cfg.Analysis.VideoFieldName)
	if fieldName == "" {
		fieldName = "video"
	}
	fileName := strings.TrimSpace(cfg.Analysis.VideoFileName)
	if fileName == "" {
		fileName = "video.mp4"
	}
	contentType := strings.TrimSpace(cfg.Capture.CanonicalType)
	if contentType == "" {
		contentType = "video/mp4"
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.Analysis.BaseURL, "/"),
		httpClient:    &http.Client{},
		uploadTimeout: uploadTimeout,
		probeTimeout:  probeTimeout,
		fieldName:     fieldName,
		fileName:      fileName,
		contentType:   contentType,
		logger:        logging.NewComponentLogger(logger, "analysis"),
	}
}

// Upload submits a recorded video for analysis and returns the service
// verdict. The video is sent exactly as captured; no transcoding happens on
// this side. Validation failures return before any network traffic.
func (c *Client) Upload(ctx context.Context, video io.Reader, size int64, description string) (*reports.UploadResult, error) {
	if video == nil || size <= 0 {
		return nil, services.Wrap(services.ErrValidation, "analysis", "upload", "no recording to submit", nil)
	}

	body, formType, err := c.buildForm(video, description)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "analysis", "upload", "assemble multipart form", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/videos/analyze-video", body)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "analysis", "upload", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", formType)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("upload timed out",
				logging.Duration("timeout", c.uploadTimeout),
				logging.String(logging.FieldErrorHint, "the service may be overloaded; retry shortly"))
			return nil, services.Wrap(services.ErrTimeout, "analysis", "upload",
				fmt.Sprintf("no response within %s", c.uploadTimeout), err)
		}
		return nil, services.Wrap(services.ErrNetwork, "analysis", "upload", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := readServiceMessage(resp.Body)
		if message == "" {
			message = fmt.Sprintf("service returned %d", resp.StatusCode)
		}
		return nil, services.Wrap(services.ErrService, "analysis", "upload", message, nil)
	}

	// A 2xx body is returned verbatim; whether success=false settles the
	// report into reviewing is the caller's call, not the transport's.
	var result reports.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, services.Wrap(services.ErrService, "analysis", "upload", "decode response", err)
	}

	c.logger.Info("upload analyzed",
		logging.Bool("success", result.Success),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
		logging.Float64("size_mb", result.Data.FileSizeInMB))
	return &result, nil
}

// TestConnection probes the analysis pipeline end to end. It never returns an
// error; any failure simply reports the service as unreachable.
func (c *Client) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos/test-gemini", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("connection probe failed", logging.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Health checks the plain liveness endpoint at the service root, outside the
// API prefix.
func (c *Client) Health(ctx context.Context) error {
	healthURL, err := c.healthURL()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "analysis", "health", "derive health endpoint", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "analysis", "health", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrNetwork, "analysis", "health", "request failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrService, "analysis", "health",
			fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}
	return nil
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// healthURL strips the API prefix so the probe hits the server root.
func (c *Client) healthURL() (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	parsed.Path = "/health"
	parsed.RawQuery = ""
	return parsed.String(), nil
}

func (c *Client) buildForm(video io.Reader, description string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, c.fieldName, c.fileName))
	header.Set("Content-Type", c.contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, "", err
	}
	if description = strings.TrimSpace(description); description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func readServiceMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && strings.TrimSpace(envelope.Message) != "" {
		return strings.TrimSpace(envelope.Message)
	}
	return strings.TrimSpace(string(data))
}
