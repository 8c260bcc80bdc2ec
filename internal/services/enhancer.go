package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"memoir/backend/internal/apperrors"
)

// promptTemplate wraps the user's text for the enhancement pass.
const promptTemplate = `Enhance the following journal entry into a more lovable and readable form, incorporating relevant emojis where appropriate. Keep the original meaning and tone. Make it sound warm and reflective. Here is the entry:

"%s"`

const (
	enhanceTemperature = 0.7
	enhanceMaxTokens   = 500
)

// Enhancer rewrites journal text through a locally hosted Ollama model,
// reached over Ollama's OpenAI-compatible API. A single non-streaming
// attempt is made per call; there is no retry.
type Enhancer struct {
	client openai.Client
	model  string
}

// NewEnhancer builds a client against the Ollama server at baseURL
// (e.g. http://localhost:11434). Ollama ignores the API key but the
// transport requires one to be set.
func NewEnhancer(baseURL, model string) *Enhancer {
	client := openai.NewClient(
		option.WithAPIKey("ollama"),
		option.WithBaseURL(baseURL+"/v1/"),
		option.WithMaxRetries(0),
	)
	return &Enhancer{client: client, model: model}
}

// CheckModel verifies at startup that the configured model is available on
// the Ollama server. The service refuses to start when it is not.
func (e *Enhancer) CheckModel(ctx context.Context) error {
	if _, err := e.client.Models.Get(ctx, e.model); err != nil {
		return fmt.Errorf("model %q not available: %w", e.model, err)
	}
	return nil
}

// Enhance sends the journal text through the fixed prompt template and
// returns the generated rewrite.
//
// Failure modes map to distinct error kinds: an application-level error from
// the service becomes an *apperrors.UpstreamError, an unreachable server
// becomes apperrors.ErrUnavailable, and a response without generated content
// becomes apperrors.ErrMalformed.
func (e *Enhancer) Enhance(ctx context.Context, journalText string) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(promptTemplate, journalText)),
		},
		Temperature: openai.Float(enhanceTemperature),
		MaxTokens:   openai.Int(enhanceMaxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.Error()
			}
			return "", &apperrors.UpstreamError{Status: apiErr.StatusCode, Message: msg}
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperrors.ErrMalformed
	}
	return resp.Choices[0].Message.Content, nil
}
