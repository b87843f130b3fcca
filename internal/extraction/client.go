// Package extraction turns raw PDF bytes into structured quiz data through
// the Gemini multimodal API.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prepdeck/mocktest-service/internal/models"
	"github.com/prepdeck/mocktest-service/internal/utils"
	qvalidator "github.com/prepdeck/mocktest-service/internal/validator"
)

// MaxInlineSize is the largest PDF sent inline with the request (20MB).
const MaxInlineSize = 20 * 1024 * 1024

const extractionTimeout = 5 * time.Minute

// ErrNoQuestions is returned when the service answers but extracts nothing.
// Zero questions is a failure, not an empty-but-valid quiz.
var ErrNoQuestions = errors.New("no questions could be extracted from this PDF")

// Extractor is the boundary the session controller consumes; tests
// substitute a mock.
type Extractor interface {
	Extract(ctx context.Context, pdf []byte) (*models.QuizData, error)
}

// Client wraps the Gemini client for exam extraction.
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	validator *qvalidator.Validator
	logger    utils.Logger
}

// NewClient creates a new Gemini-backed extractor. The API key is checked
// at config load; modelName selects the multimodal model.
func NewClient(ctx context.Context, apiKey, modelName string, v *qvalidator.Validator, logger utils.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &Client{
		client:    client,
		model:     model,
		validator: v,
		logger:    logger,
	}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Extract sends the PDF to the model and parses the structured result. Any
// failure surfaces as a single human-readable error; the session controller
// shows its message verbatim and returns the user to the upload phase.
func (c *Client) Extract(ctx context.Context, pdf []byte) (*models.QuizData, error) {
	if len(pdf) > MaxInlineSize {
		return nil, fmt.Errorf("PDF is too large to process (%d MB limit)", MaxInlineSize/(1024*1024))
	}

	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	c.logger.Info("Sending PDF for extraction", "size_bytes", len(pdf))

	resp, err := c.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdf},
		genai.Text(ExtractionPrompt),
	)
	if err != nil {
		c.logger.Error("Extraction request failed", "error", err)
		return nil, fmt.Errorf("the extraction service could not process this PDF: %w", err)
	}

	raw := collectText(resp)
	if raw == "" {
		return nil, errors.New("the extraction service returned an empty response")
	}

	quiz, err := parseQuizResponse([]byte(raw))
	if err != nil {
		c.logger.Error("Extraction response malformed", "error", err)
		return nil, fmt.Errorf("the extraction service returned malformed data: %w", err)
	}

	normalizeQuiz(quiz)

	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if errs := c.validator.Quiz().ValidateQuiz(quiz); len(errs) > 0 {
		c.logger.Error("Extraction response failed validation", "errors", errs.Error())
		return nil, fmt.Errorf("the extraction service returned invalid question data: %w", errs)
	}

	c.logger.Info("Extraction completed",
		"title", quiz.Title,
		"questions", len(quiz.Questions))

	return quiz, nil
}

// collectText concatenates all text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
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
	return sb.String()
}
