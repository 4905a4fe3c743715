package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

const genericFailureMessage = "An unknown API error occurred. Please check the log file for details."

// describeFailure turns a failed call into one human-readable line. Rules are
// applied in order and the first match wins:
//
//  1. body is an object whose "error" object has a string "message"
//  2. body is an object with a string "message"
//  3. body is a string (a JSON string, or any text that is not JSON)
//  4. err has a non-empty message (url.Error is unwrapped to its cause)
//  5. a fixed generic message
func describeFailure(body []byte, err error) string {
	if msg, ok := messageFromBody(body); ok {
		return msg
	}
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			err = urlErr.Err
		}
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
	}
	return genericFailureMessage
}

func messageFromBody(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", false
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(trimmed), true
	}

	switch b := v.(type) {
	case map[string]any:
		if inner, ok := b["error"].(map[string]any); ok {
			if msg, ok := inner["message"].(string); ok && msg != "" {
				return msg, true
			}
		}
		if msg, ok := b["message"].(string); ok && msg != "" {
			return msg, true
		}
	case string:
		if b != "" {
			return b, true
		}
	}
	return "", false
}
