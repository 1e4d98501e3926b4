package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerateContent_Success(t *testing.T) {
	var gotPath, gotKey, gotRawQuery string
	var gotBody generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotRawQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "do taxes first"}},
				}},
			},
		})
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	text, err := client.GenerateContent(context.Background(), "prioritize my tasks")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}

	if text != "do taxes first" {
		t.Errorf("Expected candidate text, got %q", text)
	}

	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Errorf("Unexpected request path %q", gotPath)
	}

	if gotKey != "test-key" {
		t.Errorf("Expected API key in x-goog-api-key header, got %q", gotKey)
	}

	if gotRawQuery != "" {
		t.Errorf("Expected no query string, got %q", gotRawQuery)
	}

	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 ||
		gotBody.Contents[0].Parts[0].Text != "prioritize my tasks" {
		t.Errorf("Prompt not forwarded verbatim: %+v", gotBody)
	}
}

func TestGenerateContent_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream, got %v", err)
	}
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream for empty candidates, got %v", err)
	}
}

func TestGenerateContent_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "super-secret-key", BaseURL: server.URL})

	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream on network failure, got %v", err)
	}

	// Transport errors embed the request URL, which must not carry the key.
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Errorf("API key leaked into error string: %v", err)
	}
}

func TestGenerateContent_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 20 * time.Millisecond,
	})

	_, err := client.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream on timeout, got %v", err)
	}
}
