package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no endpoint or API key is set.
// Image generation is optional; the rest of the admin panel works
// without it.
var ErrNotConfigured = errors.New("image generation is not configured")

const requestTimeout = 60 * time.Second

// Client calls an external image-generation HTTP service. One request,
// one result: no retry and no cancellation beyond the context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates an image generation client. Empty endpoint or key
// leaves the client unconfigured rather than failing startup.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     util.GetLogger(),
	}
}

// Configured reports whether the client can make calls
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type generateRequest struct {
	Prompt      string `json:"prompt"`
	Count       int    `json:"count"`
	AspectRatio string `json:"aspect_ratio"`
	MimeType    string `json:"mime_type"`
}

type generateResponse struct {
	Images []struct {
		Data string `json:"data"`
	} `json:"images"`
}

// GenerateImage requests one square JPEG for the prompt and returns it
// as a base64 data URI. Failures are normalized to a single
// human-readable message; no partial state is left behind.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Prompt:      prompt,
		Count:       1,
		AspectRatio: "1:1",
		MimeType:    "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.ImageGenerationTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		util.ImageGenerationTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		util.ImageGenerationTotal.WithLabelValues("error").Inc()
		message := NormalizeError(respBody)
		c.logger.Error("Image generation failed",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return "", errors.New(message)
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		util.ImageGenerationTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Images) == 0 || result.Images[0].Data == "" {
		util.ImageGenerationTotal.WithLabelValues("error").Inc()
		return "", errors.New("image generation failed, no images returned")
	}

	util.ImageGenerationTotal.WithLabelValues("success").Inc()
	return "data:image/jpeg;base64," + result.Images[0].Data, nil
}

const genericErrorMessage = "an unknown error occurred during image generation"

// NormalizeError turns a service error body into one human-readable
// string: prefer a structured message field, fall back to the
// serialized body, fall back to a generic message.
func NormalizeError(body []byte) string {
	var structured struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Error.Message != "" {
			return structured.Error.Message
		}
		if structured.Message != "" {
			return structured.Message
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && trimmed != "{}" {
		return trimmed
	}

	return genericErrorMessage
}
