// Package watermark talks to the external watermarking service.
package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-photo-share/internal/config"
)

// ErrDisabled is returned when no service URL is configured.
var ErrDisabled = errors.New("watermark service not configured")

// maxResponseBytes caps the size of a watermarked image read back from the service.
const maxResponseBytes = 64 << 20

// Client posts images to {baseURL}/watermark and returns the PNG it answers with.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.WatermarkURL,
		httpClient: &http.Client{Timeout: cfg.WatermarkTimeout},
	}
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool { return c != nil && c.baseURL != "" }

// Apply stamps text over the image and returns the PNG bytes.
func (c *Client) Apply(ctx context.Context, filename string, image []byte, text string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build watermark request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("build watermark request: %w", err)
	}
	if err := mw.WriteField("username", text); err != nil {
		return nil, fmt.Errorf("build watermark request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build watermark request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/watermark", &body)
	if err != nil {
		return nil, fmt.Errorf("build watermark request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call watermark service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("watermark service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read watermark response: %w", err)
	}
	return out, nil
}
