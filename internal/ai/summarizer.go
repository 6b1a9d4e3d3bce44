// Package ai implements the summary collaborator on an OpenAI-compatible
// chat model.
package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"ussd_lms/pkg"
)

const (
	// Summaries ride on a USSD screen, so keep them short.
	maxSummaryRunes = 200

	summaryPrompt = "Summarize this educational resource for a student in two or three plain sentences.\n\nTitle: %s\nSubject: %s\nGrade: %s\nDescription: %s"
)

// Config holds the chat model settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Summarizer generates resource summaries with a chat model.
type Summarizer struct {
	model openai.ChatModel
}

// NewSummarizer creates the chat model client.
func NewSummarizer(ctx context.Context, config Config) (*Summarizer, error) {
	maxTokens := 150
	temperature := float32(0.3)

	model, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      config.APIKey,
		BaseURL:     config.BaseURL,
		Model:       config.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	return &Summarizer{model: *model}, nil
}

// Summarize asks the model for a short summary of the resource.
func (s *Summarizer) Summarize(ctx context.Context, r pkg.Resource) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage("You summarize educational resources for students reading on a basic phone screen."),
		schema.UserMessage(fmt.Sprintf(summaryPrompt, r.Title, r.Subject, r.Grade, r.Description)),
	}

	out, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("error generating summary: %w", err)
	}

	return clampSummary(out.Content), nil
}

func clampSummary(text string) string {
	runes := []rune(text)
	if len(runes) <= maxSummaryRunes {
		return text
	}
	return string(runes[:maxSummaryRunes]) + "..."
}
