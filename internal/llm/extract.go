package llm

import (
	"encoding/json"
	"errors"
	"regexp"
)

// jsonCandidate matches from the first '{' to the last '}' or, when an array
// starts earlier, from the first '[' to the last ']'. Matching is greedy, so
// two independent JSON blocks in one response are captured together and
// rejected as invalid rather than guessed apart.
var jsonCandidate = regexp.MustCompile(`\{[\s\S]*\}|\[[\s\S]*\]`)

var errNoJSON = errors.New("no JSON object or array found")

// ExtractJSON pulls the JSON object or array embedded in a free-form model
// response. Prose before and after the JSON is ignored. It fails with
// *ErrInvalidJSON, carrying the full raw text, when no candidate exists or
// the candidate does not parse.
func ExtractJSON(raw string) (json.RawMessage, error) {
	candidate := jsonCandidate.FindString(raw)
	if candidate == "" {
		return nil, &ErrInvalidJSON{Raw: raw, Err: errNoJSON}
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, &ErrInvalidJSON{Raw: raw, Err: err}
	}
	return json.RawMessage(candidate), nil
}

// DecodeJSON extracts the JSON in raw and decodes it into T. Extraction
// failures are *ErrInvalidJSON; a value of the wrong shape is
// *ErrInvalidResponse.
func DecodeJSON[T any](raw string) (T, error) {
	var out T
	data, err := ExtractJSON(raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &ErrInvalidResponse{Content: data, Err: err}
	}
	return out, nil
}
