// Package llm is a thin adapter over the hosted chat-completions endpoint.
//
// Calls are single-shot and never retried automatically: completions are
// stochastic, so a retry is not idempotent, and every call costs money and
// quota. Failures surface as one error for the caller to show the user.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ErrMissingCredentials is returned when no API key is configured.
var ErrMissingCredentials = errors.New("llm: API key is not configured")

// ErrEmptyReply is returned when the endpoint responds without any choices.
var ErrEmptyReply = errors.New("llm: no response choices returned")

// Config holds the endpoint and model configuration for the client.
type Config struct {
	// APIKey authenticates against the endpoint. Required.
	APIKey string

	// BaseURL overrides the default endpoint, e.g. for DeepSeek or a local
	// OpenAI-compatible server. Empty uses the provider default.
	BaseURL string

	// TextModel is the model used for text generation requests.
	TextModel string

	// VisionModel is the model used for image description requests.
	VisionModel string

	// Temperature is passed on every request. Zero means provider default.
	Temperature float32
}

// Client issues synchronous chat-completion requests.
type Client struct {
	api *openai.Client
	cfg Config
}

// New creates a Client from the given configuration.
func New(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api: openai.NewClientWithConfig(clientConfig),
		cfg: cfg,
	}
}

// Send issues one chat-completion request with a system instruction and a
// user message, and returns the single reply string.
func (c *Client) Send(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingCredentials
	}

	resp, err := c.api.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.cfg.TextModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
				{Role: openai.ChatMessageRoleUser, Content: userMessage},
			},
			Temperature: c.cfg.Temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate AI response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}

// SendVision issues one vision request: the instruction text plus the image
// embedded as a base64 data URI in a multi-part user message.
func (c *Client) SendVision(ctx context.Context, instruction string, image []byte, mime string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingCredentials
	}
	if len(image) == 0 {
		return "", errors.New("llm: empty image data")
	}
	if mime == "" {
		mime = "image/jpeg"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))

	resp, err := c.api.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.cfg.VisionModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: instruction},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
						},
					},
				},
			},
			Temperature: c.cfg.Temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to describe image: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}
