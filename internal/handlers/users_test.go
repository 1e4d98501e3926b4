package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskpilot/backend/internal/handlers"
	"taskpilot/backend/internal/models"
	"taskpilot/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockRegisterService struct {
	emailTaken        bool
	shouldReturnError bool
}

func (m *MockRegisterService) RegisterUser(db *gorm.DB, req services.RegistrationRequest) (*models.User, error) {
	if m.emailTaken {
		return nil, services.ErrEmailTaken
	}
	if m.shouldReturnError {
		return nil, gorm.ErrInvalidData
	}
	return &models.User{
		ID:    uuid.Must(uuid.NewV4()),
		Name:  req.Name,
		Email: req.Email,
	}, nil
}

type MockAuthService struct {
	invalidCredentials bool
	shouldReturnError  bool
	token              string
}

func (m *MockAuthService) LoginUser(db *gorm.DB, email, password string) (*models.User, string, error) {
	if m.invalidCredentials {
		return nil, "", services.ErrInvalidCredentials
	}
	if m.shouldReturnError {
		return nil, "", gorm.ErrInvalidData
	}
	return &models.User{ID: uuid.Must(uuid.NewV4()), Email: email}, m.token, nil
}

func setupUserHandler() (*MockRegisterService, *MockAuthService, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	registerService := &MockRegisterService{}
	authService := &MockAuthService{token: "issued-token"}
	handler := handlers.NewUserHandler(nil, registerService, authService)

	router := gin.New()
	router.POST("/users/register", handler.Register)
	router.POST("/users/login", handler.Login)
	router.POST("/users/logout", handler.Logout)

	return registerService, authService, router
}

func TestRegister(t *testing.T) {
	_, _, router := setupUserHandler()

	body, _ := json.Marshal(map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pw123",
	})
	req, _ := http.NewRequest("POST", "/users/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	user, ok := response["user"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected user object in response")
	}
	if user["email"] != "a@x.com" {
		t.Errorf("Expected email a@x.com, got %v", user["email"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("Password must never appear in the response")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	registerService, _, router := setupUserHandler()
	registerService.emailTaken = true

	body, _ := json.Marshal(map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pw123",
	})
	req, _ := http.NewRequest("POST", "/users/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	_, _, router := setupUserHandler()

	body, _ := json.Marshal(map[string]string{"name": "A"})
	req, _ := http.NewRequest("POST", "/users/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	registerService, _, router := setupUserHandler()
	registerService.shouldReturnError = true

	body, _ := json.Marshal(map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pw123",
	})
	req, _ := http.NewRequest("POST", "/users/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	// Infrastructure detail stays in the server log.
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["message"] != "Internal Server Error" {
		t.Errorf("Expected fixed error message, got %v", response["message"])
	}
}

func TestLogin(t *testing.T) {
	_, _, router := setupUserHandler()

	body, _ := json.Marshal(map[string]string{
		"email":    "a@x.com",
		"password": "pw123",
	})
	req, _ := http.NewRequest("POST", "/users/login", bytes.NewBuffer(body))
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
	if response["token"] != "issued-token" {
		t.Errorf("Expected issued token in response, got %v", response["token"])
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, authService, router := setupUserHandler()
	authService.invalidCredentials = true

	body, _ := json.Marshal(map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	req, _ := http.NewRequest("POST", "/users/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestLogout(t *testing.T) {
	_, _, router := setupUserHandler()

	req, _ := http.NewRequest("POST", "/users/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}
