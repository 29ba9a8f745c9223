package quizarena

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind classifies a failed generation call.
type ErrorKind string

const (
	ErrKindQuota         ErrorKind = "quota"
	ErrKindModelNotFound ErrorKind = "model_not_found"
	ErrKindAuth          ErrorKind = "auth"
	ErrKindTimeout       ErrorKind = "timeout"
	ErrKindUnknown       ErrorKind = "unknown"
)

// AIError is a classified gateway failure. It carries a human-readable
// message plus an actionable suggestion so callers can render something
// better than a generic failure.
type AIError struct {
	Kind       ErrorKind `json:"error_type"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`
}

func (e *AIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AsAIError unwraps err into an *AIError if it is one.
func AsAIError(err error) (*AIError, bool) {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr, true
	}
	return nil, false
}

// ClassifyError maps a raw provider error onto the fixed taxonomy. The
// inspection is deterministic: status codes and message patterns decide the
// kind, anything unrecognized falls through to unknown.
func ClassifyError(err error, modelName string) *AIError {
	raw := err.Error()
	lowered := strings.ToLower(raw)

	var apiErr *openai.APIError
	status := 0
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatusCode
	}

	switch {
	case status == 429 || strings.Contains(raw, "429") || strings.Contains(lowered, "quota") || strings.Contains(lowered, "rate"):
		return &AIError{
			Kind:       ErrKindQuota,
			Message:    fmt.Sprintf("API quota exceeded for model: %s", modelName),
			Suggestion: "Try selecting a different AI model, or wait a few minutes before trying again.",
		}
	case status == 404 || strings.Contains(raw, "404") || strings.Contains(lowered, "not found"):
		return &AIError{
			Kind:       ErrKindModelNotFound,
			Message:    fmt.Sprintf("Model '%s' not available", modelName),
			Suggestion: "This model may be deprecated. Try the default model instead.",
		}
	case status == 403 || strings.Contains(raw, "403") || strings.Contains(lowered, "permission") || strings.Contains(lowered, "api key"):
		return &AIError{
			Kind:       ErrKindAuth,
			Message:    "API authentication failed",
			Suggestion: "Please check your API key configuration.",
		}
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(lowered, "timeout") || strings.Contains(lowered, "deadline"):
		return &AIError{
			Kind:       ErrKindTimeout,
			Message:    "Request timed out",
			Suggestion: "The AI is taking too long. Try again or use a faster model.",
		}
	default:
		return &AIError{
			Kind:       ErrKindUnknown,
			Message:    "AI generation failed unexpectedly",
			Suggestion: "Try again or select a different AI model.",
		}
	}
}

// TextGenerator is the single capability this module needs from the AI
// provider: turn a rendered prompt into text, optionally JSON-shaped.
type TextGenerator interface {
	// GenerateJSON asks for machine-parseable JSON output.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// GenerateText asks for free-form text output.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// ModelName reports the model identifier requests are sent with.
	ModelName() string
}

// Gateway wraps the external chat-completion call. It performs no retries;
// callers see the first failure, already classified.
type Gateway struct {
	client *openai.Client
	model  string
	logger *LLMLogger
}

// NewGateway creates a gateway for the given model. The model identifier
// must not be empty; callers supply the configured default when the user
// picked none.
func NewGateway(apiKey, model string) *Gateway {
	return &Gateway{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// SetLogger attaches a transcript logger for prompt/response pairs.
func (g *Gateway) SetLogger(logger *LLMLogger) {
	g.logger = logger
}

// ModelName returns the model identifier this gateway sends requests with.
func (g *Gateway) ModelName() string {
	return g.model
}

// GenerateJSON sends the prompt and asks the provider for a JSON object
// response. The returned string is the raw JSON text.
func (g *Gateway) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, true)
}

// GenerateText sends the prompt and returns the raw text response.
func (g *Gateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, false)
}

func (g *Gateway) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	VerboseLog("Gateway request: model=%s, json=%v, prompt=%d bytes", g.model, jsonMode, len(prompt))

	if g.logger != nil {
		g.logger.LogRequest(g.model, prompt)
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", ClassifyError(err, g.model)
	}

	if len(resp.Choices) == 0 {
		return "", ClassifyError(fmt.Errorf("no choices in response"), g.model)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if g.logger != nil {
		g.logger.LogResponse(g.model, content)
	}

	return content, nil
}
