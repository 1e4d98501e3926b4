package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"taskpilot/backend/internal/ai"
	"taskpilot/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SuggestionHandler struct {
	suggestions services.SuggestionService
}

func NewSuggestionHandler(suggestions services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

type suggestionRequest struct {
	Tasks json.RawMessage `json:"tasks"`
}

// Suggest relays the caller's task titles to the generative API. The tasks
// field must be a non-empty JSON array of strings; anything else is rejected
// before the upstream is contacted.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	var titles []string
	if err := json.Unmarshal(req.Tasks, &titles); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input, tasks should be an array"})
		return
	}

	text, err := h.suggestions.Suggest(c.Request.Context(), titles)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if errors.Is(err, ai.ErrUpstream) {
			log.Printf("Error with AI API: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error getting AI suggestions"})
			return
		}
		log.Printf("Suggestion request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error getting AI suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": text})
}
