// Package gemini is a minimal HTTP client for the Gemini generateContent API,
// with error classification for the gateway's retry logic.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GenerateRequest carries one text generation call
type GenerateRequest struct {
	Prompt            string
	SystemInstruction string
	Model             string // optional override of the client default
	Temperature       float64
	MaxOutputTokens   int
}

// Client calls the Gemini generateContent API over HTTP
type Client struct {
	apiKey          string
	model           string
	temperature     float64
	maxOutputTokens int
	baseURL         string
	httpClient      *http.Client
}

// NewClient creates a Gemini API client from configuration
func NewClient(cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		baseURL:         defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// request/response wire types for the generateContent endpoint

type apiPart struct {
	Text string `json:"text"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type apiRequest struct {
	Contents          []apiContent     `json:"contents"`
	SystemInstruction *apiContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []apiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate performs a single-shot text generation call and returns the
// generated text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.Prompt == "" {
		return "", ErrEmptyPrompt
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.resolveModel(req), c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text, ok := extractText(&apiResp)
	if !ok {
		return "", ErrNoResponse
	}
	return text, nil
}

// Stream is a lazy, finite, non-restartable sequence of generated text
// fragments. Recv returns io.EOF after the final fragment.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// GenerateStream starts a streaming generation call. The caller must drain
// the stream or call Close.
func (c *Client) GenerateStream(ctx context.Context, req GenerateRequest) (*Stream, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.resolveModel(req), c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, readAPIError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Stream{body: resp.Body, scanner: scanner}, nil
}

// Recv returns the next text fragment, or io.EOF when the stream ends
func (s *Stream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk apiResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("decode stream chunk: %w", err)
		}
		if text, ok := extractText(&chunk); ok {
			return text, nil
		}
	}

	if err := s.scanner.Err(); err != nil {
		_ = s.body.Close()
		return "", err
	}
	_ = s.body.Close()
	return "", io.EOF
}

// Close releases the underlying connection
func (s *Stream) Close() error {
	return s.body.Close()
}

func (c *Client) resolveModel(req GenerateRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func (c *Client) buildRequest(req GenerateRequest) *apiRequest {
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = c.maxOutputTokens
	}

	out := &apiRequest{
		Contents: []apiContent{
			{Role: "user", Parts: []apiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      temperature,
			MaxOutputTokens:  maxTokens,
			ResponseMimeType: "text/plain",
		},
	}
	if req.SystemInstruction != "" {
		out.SystemInstruction = &apiContent{Parts: []apiPart{{Text: req.SystemInstruction}}}
	}
	return out
}

func extractText(resp *apiResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}

func readAPIError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))

	// The API wraps errors as {"error": {"message": ...}}; fall back to the
	// raw body when that shape is absent
	var wrapper struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(bodyBytes)
	if err := json.Unmarshal(bodyBytes, &wrapper); err == nil && wrapper.Error.Message != "" {
		message = wrapper.Error.Message
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
