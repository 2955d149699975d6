package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"clinician-notes-service/internal/domain"
)

// GenerationEngineContract is the interface to the external generation
// engine. Implementations may fail with domain.ErrEngineUnavailable on
// transport problems and domain.ErrNotConfigured when no credential is set.
type GenerationEngineContract interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error)
	ModelName() string
}

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiEngine calls the Gemini generateContent REST endpoint.
type GeminiEngine struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

var _ GenerationEngineContract = (*GeminiEngine)(nil)

// NewGeminiEngine creates a Gemini client. An empty apiKey is allowed at
// construction time; calls will fail with domain.ErrNotConfigured.
func NewGeminiEngine(apiKey, model string, logger *log.Logger) *GeminiEngine {
	return &GeminiEngine{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the endpoint, used by tests.
func (e *GeminiEngine) WithBaseURL(baseURL string) *GeminiEngine {
	e.baseURL = baseURL
	return e
}

func (e *GeminiEngine) ModelName() string {
	return e.model
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (e *GeminiEngine) Complete(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error) {
	if e.apiKey == "" {
		return "", fmt.Errorf("missing API key: %w", domain.ErrNotConfigured)
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize engine request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", e.baseURL, e.model, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("engine call failed: %v: %w", err, domain.ErrEngineUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read engine response: %v: %w", err, domain.ErrEngineUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Printf("Engine returned status %d for model %s", resp.StatusCode, e.model)
		return "", fmt.Errorf("engine returned status %d: %w", resp.StatusCode, domain.ErrEngineUnavailable)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse engine response: %v: %w", err, domain.ErrEngineUnavailable)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("engine returned no candidates: %w", domain.ErrEngineUnavailable)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
