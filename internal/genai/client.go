package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/studyloop/quiz-service/internal/errors"
	"github.com/studyloop/quiz-service/internal/models"
)

const (
	// ModelName is the Gemini model to use.
	ModelName = "gemini-2.0-flash"

	maxAttempts = 3
	retryDelay  = 2 * time.Second
)

// Client wraps the Gemini client and implements the generation, evaluation and
// content-cleaning collaborator contracts. Generation and evaluation use a
// JSON-mode model; content cleaning returns plain text.
type Client struct {
	client    *genai.Client
	jsonModel *genai.GenerativeModel
	textModel *genai.GenerativeModel
	logger    *slog.Logger
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel(ModelName)
	jsonModel.ResponseMIMEType = "application/json"
	jsonModel.SetTemperature(0.2)
	jsonModel.SetTopK(40)
	jsonModel.SetTopP(0.95)

	textModel := client.GenerativeModel(ModelName)
	textModel.SetTemperature(0.2)

	return &Client{
		client:    client,
		jsonModel: jsonModel,
		textModel: textModel,
		logger:    logger,
	}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateQuiz produces an ordered question list from document text. Malformed
// model output is surfaced as a retryable generation error, identical to a
// network failure.
func (c *Client) GenerateQuiz(ctx context.Context, content string) ([]models.Question, error) {
	raw, err := c.generate(ctx, c.jsonModel, fmt.Sprintf(quizPrompt, content))
	if err != nil {
		return nil, apperrors.NewGenerationError("model request failed", err)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		c.logger.Error("malformed quiz generation response", "error", err)
		return nil, apperrors.NewGenerationError("malformed model output", err)
	}
	return questions, nil
}

// EvaluateQuiz grades the full question set against the answer snapshot.
func (c *Client) EvaluateQuiz(ctx context.Context, questions []models.Question, answers map[string]models.AnswerValue) (*models.Evaluation, error) {
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, apperrors.NewEvaluationError("failed to encode questions", err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, apperrors.NewEvaluationError("failed to encode answers", err)
	}

	raw, err := c.generate(ctx, c.jsonModel, fmt.Sprintf(evaluatePrompt, questionsJSON, answersJSON))
	if err != nil {
		return nil, apperrors.NewEvaluationError("model request failed", err)
	}

	eval, err := parseEvaluation(raw, len(questions))
	if err != nil {
		c.logger.Error("malformed quiz evaluation response", "error", err)
		return nil, apperrors.NewEvaluationError("malformed model output", err)
	}
	return eval, nil
}

// CleanContent runs the extracted page text through the model to strip
// navigation debris and normalize formatting.
func (c *Client) CleanContent(ctx context.Context, text string) (string, error) {
	raw, err := c.generate(ctx, c.textModel, fmt.Sprintf(cleanContentPrompt, text))
	if err != nil {
		return "", err
	}
	return raw, nil
}

// generate sends one prompt and collects the text parts of the response,
// retrying transient failures a bounded number of times.
func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = fmt.Errorf("failed to generate content (attempt %d): %w", attempt, err)
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("no content generated (attempt %d)", attempt)
			continue
		}

		var text string
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
		if text == "" {
			lastErr = fmt.Errorf("no text content in response (attempt %d)", attempt)
			continue
		}
		return text, nil
	}
	return "", lastErr
}
