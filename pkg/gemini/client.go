// Package gemini adapts the Gen AI SDK to the single-prompt text generation
// the feedback proxy needs.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultBaseURL is the public Generative Language endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/"
	// DefaultAPIVersion is the API version requests are sent to.
	DefaultAPIVersion = "v1beta"

	maxErrorBody = 64 << 10
)

// Config tunes generation requests.
type Config struct {
	APIKey          string
	BaseURL         string
	APIVersion      string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

// Client calls generateContent for a given model. The SDK client is built on
// first use so a missing key only fails the requests that need it.
type Client struct {
	cfg        Config
	httpClient *http.Client

	once   sync.Once
	sdk    *genai.Client
	sdkErr error
}

// NewClient builds a client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	capturing := *httpClient
	capturing.Transport = &captureTransport{next: httpClient.Transport}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	return &Client{cfg: cfg, httpClient: &capturing}
}

// StatusError reports a non-success HTTP response from the provider.
type StatusError struct {
	Model      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini %s: status %d: %s", e.Model, e.StatusCode, e.Body)
}

// Generate sends prompt to model and returns the text of the first candidate,
// or "" when there is none. Non-success responses yield *StatusError;
// anything else is a transport failure.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	sdk, err := c.client(ctx)
	if err != nil {
		return "", err
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Temperature)),
		MaxOutputTokens: int32(c.cfg.MaxOutputTokens),
	}
	failed := &failedResponse{}
	resp, err := sdk.Models.GenerateContent(context.WithValue(ctx, failedResponseKey{}, failed), model, genai.Text(prompt), config)
	if err != nil {
		apiErr, isAPIErr := asAPIError(err)
		if failed.status != 0 || isAPIErr {
			return "", statusError(model, failed, apiErr)
		}
		return "", fmt.Errorf("gemini %s: %w", model, err)
	}
	return firstText(resp), nil
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		c.sdk, c.sdkErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     c.cfg.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: c.httpClient,
			HTTPOptions: genai.HTTPOptions{
				BaseURL:    c.cfg.BaseURL,
				APIVersion: c.cfg.APIVersion,
			},
		})
	})
	if c.sdkErr != nil {
		return nil, fmt.Errorf("gemini client: %w", c.sdkErr)
	}
	return c.sdk, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return content.Parts[0].Text
}

func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}
	var pointer *genai.APIError
	if errors.As(err, &pointer) && pointer != nil {
		return *pointer, true
	}
	return genai.APIError{}, false
}

func statusError(model string, failed *failedResponse, apiErr genai.APIError) *StatusError {
	if failed.status != 0 {
		return &StatusError{Model: model, StatusCode: failed.status, Body: failed.body}
	}
	code := apiErr.Code
	if code == 0 {
		code = http.StatusBadGateway
	}
	body, err := json.Marshal(map[string]genai.APIError{"error": apiErr})
	if err != nil {
		body = []byte(apiErr.Message)
	}
	return &StatusError{Model: model, StatusCode: code, Body: string(body)}
}

type failedResponseKey struct{}

// failedResponse holds the raw status and body of a non-success response.
type failedResponse struct {
	status int
	body   string
}

type captureTransport struct {
	next http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		return resp, err
	}
	failed, ok := req.Context().Value(failedResponseKey{}).(*failedResponse)
	if !ok {
		return resp, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	failed.status = resp.StatusCode
	failed.body = string(body)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
