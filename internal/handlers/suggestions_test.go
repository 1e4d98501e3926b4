package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskpilot/backend/internal/ai"
	"taskpilot/backend/internal/handlers"
	"taskpilot/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MockSuggestionService struct {
	calls    int
	response string
	err      error
}

func (m *MockSuggestionService) Suggest(ctx context.Context, taskTitles []string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func setupSuggestionHandler() (*MockSuggestionService, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	mockService := &MockSuggestionService{response: "1. t1 2. t2"}
	handler := handlers.NewSuggestionHandler(mockService)

	router := gin.New()
	router.POST("/tasks/ai-suggestions", handler.Suggest)

	return mockService, router
}

func TestSuggest(t *testing.T) {
	_, router := setupSuggestionHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"tasks": []string{"t1", "t2"},
	})
	req, _ := http.NewRequest("POST", "/tasks/ai-suggestions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["suggestions"] != "1. t1 2. t2" {
		t.Errorf("Expected upstream text verbatim, got %v", response["suggestions"])
	}
}

func TestSuggest_NonArrayInput(t *testing.T) {
	mockService, router := setupSuggestionHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"tasks": "not-an-array",
	})
	req, _ := http.NewRequest("POST", "/tasks/ai-suggestions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if mockService.calls != 0 {
		t.Errorf("Upstream must not be invoked for non-array input, got %d calls", mockService.calls)
	}
}

func TestSuggest_MissingTasksField(t *testing.T) {
	mockService, router := setupSuggestionHandler()

	req, _ := http.NewRequest("POST", "/tasks/ai-suggestions", bytes.NewBuffer([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if mockService.calls != 0 {
		t.Errorf("Upstream must not be invoked, got %d calls", mockService.calls)
	}
}

func TestSuggest_EmptyList(t *testing.T) {
	mockService, router := setupSuggestionHandler()
	mockService.err = services.ErrValidation

	body, _ := json.Marshal(map[string]interface{}{
		"tasks": []string{},
	})
	req, _ := http.NewRequest("POST", "/tasks/ai-suggestions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSuggest_UpstreamFailure(t *testing.T) {
	mockService, router := setupSuggestionHandler()
	mockService.err = ai.ErrUpstream

	body, _ := json.Marshal(map[string]interface{}{
		"tasks": []string{"t1"},
	})
	req, _ := http.NewRequest("POST", "/tasks/ai-suggestions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["message"] != "Error getting AI suggestions" {
		t.Errorf("Expected fixed error message, got %v", response["message"])
	}
}
