package services

import (
	"context"
	"fmt"
	"strings"
)

// maxPromptRunes bounds how much user text is forwarded to the generative
// API. Titles are passed through otherwise unescaped.
const maxPromptRunes = 4096

// Generator is the outbound side of the suggestion relay.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type SuggestionService interface {
	Suggest(ctx context.Context, taskTitles []string) (string, error)
}

type SuggestionServiceImpl struct {
	generator Generator
}

func NewSuggestionService(generator Generator) *SuggestionServiceImpl {
	return &SuggestionServiceImpl{generator: generator}
}

// Suggest relays a prioritization prompt built from the task titles and
// returns the upstream text verbatim.
func (s *SuggestionServiceImpl) Suggest(ctx context.Context, taskTitles []string) (string, error) {
	if len(taskTitles) == 0 {
		return "", fmt.Errorf("%w: tasks list cannot be empty", ErrValidation)
	}

	prompt := fmt.Sprintf("Here are my tasks: %s. Please prioritize them.", strings.Join(taskTitles, ", "))
	if runes := []rune(prompt); len(runes) > maxPromptRunes {
		prompt = string(runes[:maxPromptRunes])
	}

	return s.generator.GenerateContent(ctx, prompt)
}
