package adapters

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinician-notes-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestGeminiEngine_CompleteReturnsCandidateText(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": `{"soap": {}}`}}}},
			},
		})
	}))
	defer server.Close()

	engine := NewGeminiEngine("test-key", "gemini-2.0-flash", testLogger()).WithBaseURL(server.URL)

	text, err := engine.Complete(context.Background(), "summarize this", 0.2, 8192)

	assert.NoError(t, err)
	assert.Equal(t, `{"soap": {}}`, text)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "summarize this", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, 0.2, gotBody.GenerationConfig.Temperature)
	assert.Equal(t, 8192, gotBody.GenerationConfig.MaxOutputTokens)
}

func TestGeminiEngine_MissingAPIKey(t *testing.T) {
	engine := NewGeminiEngine("", "gemini-2.0-flash", testLogger())

	_, err := engine.Complete(context.Background(), "prompt", 0.2, 8192)

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestGeminiEngine_Non200StatusIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine := NewGeminiEngine("test-key", "gemini-2.0-flash", testLogger()).WithBaseURL(server.URL)

	_, err := engine.Complete(context.Background(), "prompt", 0.2, 8192)

	assert.ErrorIs(t, err, domain.ErrEngineUnavailable)
}

func TestGeminiEngine_EmptyCandidatesIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	engine := NewGeminiEngine("test-key", "gemini-2.0-flash", testLogger()).WithBaseURL(server.URL)

	_, err := engine.Complete(context.Background(), "prompt", 0.2, 8192)

	assert.ErrorIs(t, err, domain.ErrEngineUnavailable)
}

func TestGeminiEngine_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	engine := NewGeminiEngine("test-key", "gemini-2.0-flash", testLogger()).WithBaseURL(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Complete(ctx, "prompt", 0.2, 8192)

	assert.Error(t, err)
}
