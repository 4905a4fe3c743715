package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider using the OpenAI SDK.
// It also serves OpenRouter and other OpenAI-compatible APIs via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ErrAPIKeyNotSet{Provider: "openai", EnvVar: "DEUTSCHLERN_OPENAI_API_KEY"}
	}
	return newOpenAICompatible(cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels), nil), nil
}

func newOpenAICompatible(apiKey, baseURL, model string, headers map[string]string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &capturingDoer{client: http.DefaultClient, headers: headers}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	}

	capture := &bodyCapture{}
	resp, err := p.client.CreateChatCompletion(withBodyCapture(ctx, capture), chatReq)
	if err != nil {
		return nil, mapOpenAIError(err, capture)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrAPI{
			StatusCode: capture.status,
			Message:    describeFailure(capture.body, errors.New("response contained no choices")),
		}
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: mapOpenAIStopReason(resp.Choices[0].FinishReason),
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func buildOpenAIMessages(msgs []Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return messages
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonLength:
		return "max_tokens"
	default:
		return "end"
	}
}

func mapOpenAIError(err error, capture *bodyCapture) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = describeFailure(nil, fmt.Errorf("request failed: %s", apiErr.HTTPStatus))
		}
		return &ErrAPI{StatusCode: apiErr.HTTPStatusCode, Message: msg, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ErrAPI{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    describeFailure(reqErr.Body, fmt.Errorf("request failed: %s", reqErr.HTTPStatus)),
			Err:        err,
		}
	}

	// A 2xx response whose body could not be decoded.
	if capture.status != 0 {
		return &ErrAPI{
			StatusCode: capture.status,
			Message:    describeFailure(capture.body, err),
			Err:        err,
		}
	}

	return &ErrTransport{Err: err}
}

// bodyCapture records the status and body of a successful HTTP exchange so
// a malformed 2xx body can still be classified.
type bodyCapture struct {
	status int
	body   []byte
}

type bodyCaptureKey struct{}

func withBodyCapture(ctx context.Context, c *bodyCapture) context.Context {
	return context.WithValue(ctx, bodyCaptureKey{}, c)
}

// capturingDoer adds static headers to every request and buffers 2xx
// response bodies into the request's bodyCapture, if any.
type capturingDoer struct {
	client  *http.Client
	headers map[string]string
}

func (d *capturingDoer) Do(req *http.Request) (*http.Response, error) {
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}

	capture, ok := req.Context().Value(bodyCaptureKey{}).(*bodyCapture)
	if !ok || resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	capture.status = resp.StatusCode
	capture.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
