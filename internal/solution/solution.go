// Package solution generates on-demand detailed solutions for report
// questions through the Gemini text API.
package solution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prepdeck/mocktest-service/internal/models"
	"github.com/prepdeck/mocktest-service/internal/utils"
)

// FallbackMessage is shown inline when generation fails; the user can
// re-trigger generation. Failures never escape to the report view.
const FallbackMessage = "A detailed solution could not be generated right now. Please try again."

const solutionTimeout = 60 * time.Second

// Generator produces a markdown+LaTeX walkthrough for one question.
type Generator interface {
	Solve(ctx context.Context, question *models.Question) (string, error)
}

// Client is the Gemini-backed Generator.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger utils.Logger
}

func NewClient(ctx context.Context, apiKey, modelName string, logger utils.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Solve asks the model for a step-by-step solution. The returned string is
// markdown with $...$ / $$...$$ LaTeX, matching the question text format.
func (c *Client) Solve(ctx context.Context, question *models.Question) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, solutionTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(question)))
	if err != nil {
		c.logger.Error("Solution generation failed", "question_id", question.ID, "error", err)
		return "", fmt.Errorf("solution generation failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("solution generation returned an empty response for question %d", question.ID)
	}
	return text, nil
}

func buildPrompt(q *models.Question) string {
	var sb strings.Builder
	sb.WriteString("Provide a detailed step-by-step solution for this multiple-choice question. ")
	sb.WriteString("Write markdown; use $...$ for inline math and $$...$$ for display math. ")
	sb.WriteString("Explain why the correct option is right and why each other option is wrong.\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(q.Text)
	sb.WriteString("\n\nOptions:\n")
	for _, opt := range q.Options {
		fmt.Fprintf(&sb, "%s. %s\n", opt.ID, opt.Text)
	}
	fmt.Fprintf(&sb, "\nCorrect answer: %s\n", q.CorrectOptionID)
	return sb.String()
}
