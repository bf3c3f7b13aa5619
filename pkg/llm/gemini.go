package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-2.5-flash"

	// promptLogLimit bounds how much of the prompt lands in the debug log.
	promptLogLimit = 500
)

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGeminiClient creates a Gemini REST client. The client itself has no
// timeout; callers bound each call through the context.
func NewGeminiClient(opts Options) *GeminiClient {
	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	endpoint := strings.TrimSuffix(opts.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultGeminiEndpoint
	}

	return &GeminiClient{
		apiKey:   opts.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// Provider returns the provider name.
func (c *GeminiClient) Provider() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate submits the prompt and extracts the first candidate's text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	logPrompt := prompt
	if len(logPrompt) > promptLogLimit {
		logPrompt = logPrompt[:promptLogLimit] + "..."
	}
	log.Debug().
		Str("model", c.model).
		Str("prompt", logPrompt).
		Msg("Sending prompt to Gemini")

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &UpstreamError{Kind: KindDecode, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		upErr := classify(err)
		log.Error().Err(err).Str("kind", string(upErr.Kind)).Msg("Gemini call failed")
		return "", upErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		log.Error().Int("status", resp.StatusCode).Msg("Gemini call failed")
		return "", &UpstreamError{Kind: KindStatus, Err: err}
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UpstreamError{Kind: KindDecode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &UpstreamError{Kind: KindDecode, Err: fmt.Errorf("response has no candidates")}
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
