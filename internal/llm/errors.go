package llm

import (
	"encoding/json"
	"fmt"
)

// ErrAPIKeyNotSet is returned by every call while no credential is configured.
type ErrAPIKeyNotSet struct {
	Provider string
	EnvVar   string
}

func (e *ErrAPIKeyNotSet) Error() string {
	return fmt.Sprintf("%s API key not set. Please set %s or add it to the config file.",
		providerTitle(e.Provider), e.EnvVar)
}

// ErrTransport indicates the request never produced an HTTP response
// (DNS, connection refused, timeout, cancelled context).
type ErrTransport struct {
	Err error
}

func (e *ErrTransport) Error() string {
	return describeFailure(nil, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrAPI indicates the remote service answered with a non-2xx status or a
// body without choices. Message is the classified, human-readable text.
type ErrAPI struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrAPI) Error() string {
	return e.Message
}

func (e *ErrAPI) Unwrap() error { return e.Err }

// ErrInvalidJSON indicates no JSON value could be extracted from a model
// response. Raw holds the full response for diagnostics; it is never part
// of Error().
type ErrInvalidJSON struct {
	Raw string
	Err error
}

func (e *ErrInvalidJSON) Error() string {
	return "The AI returned a response that was not valid JSON."
}

func (e *ErrInvalidJSON) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the extracted JSON does not have the
// expected shape.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

func providerTitle(name string) string {
	switch name {
	case "openrouter":
		return "OpenRouter"
	case "openai":
		return "OpenAI"
	case "anthropic":
		return "Anthropic"
	case "gemini":
		return "Gemini"
	default:
		return name
	}
}
