package llm

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestExtractJSON_RecoversEmbeddedValue(t *testing.T) {
	values := []any{
		map[string]any{"word": "Tisch", "translation": "table"},
		[]any{"eins", "zwei", float64(3)},
		map[string]any{"options": []any{"bin", "bist", "ist"}, "nested": map[string]any{"ok": true}},
		[]any{map[string]any{"a": "}"}, map[string]any{"b": "]"}},
	}
	wrappers := []struct{ before, after string }{
		{"", ""},
		{"Here is your exercise:\n", ""},
		{"", "\nViel Erfolg!"},
		{"```json\n", "\n```"},
		{"Sure thing. ", " Let me know if you need more."},
	}

	for _, v := range values {
		encoded, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		for _, w := range wrappers {
			raw := w.before + string(encoded) + w.after
			got, err := ExtractJSON(raw)
			if err != nil {
				t.Fatalf("ExtractJSON(%q): %v", raw, err)
			}
			var decoded any
			if err := json.Unmarshal(got, &decoded); err != nil {
				t.Fatalf("unmarshal extracted: %v", err)
			}
			if !reflect.DeepEqual(decoded, v) {
				t.Errorf("ExtractJSON(%q) = %v, want %v", raw, decoded, v)
			}
		}
	}
}

func TestExtractJSON_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "Entschuldigung, das kann ich nicht."},
		{"unbalanced open", `{"word": "Tisch"`},
		{"malformed", `{"word": Tisch}`},
		{"closer before opener", `} nothing here {`},
		// Greedy matching spans both blocks; the combined text is not JSON.
		{"two independent objects", `{"a": 1} and also {"b": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.raw)
			var jsonErr *ErrInvalidJSON
			if !errors.As(err, &jsonErr) {
				t.Fatalf("expected *ErrInvalidJSON, got %T (%v)", err, err)
			}
			if jsonErr.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", jsonErr.Raw, tt.raw)
			}
		})
	}
}

func TestExtractJSON_PrefersEarliestOpener(t *testing.T) {
	got, err := ExtractJSON(`Antwort: [{"x": 1}] fertig`)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if string(got) != `[{"x": 1}]` {
		t.Errorf("got %s", got)
	}

	got, err = ExtractJSON(`{"list": [1, 2]} trailing ] bracket`)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if string(got) != `{"list": [1, 2]}` {
		t.Errorf("got %s", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	type card struct {
		Word        string `json:"word"`
		Translation string `json:"translation"`
	}

	c, err := DecodeJSON[card](`Here you go: {"word":"Tisch","translation":"table"}`)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if c.Word != "Tisch" || c.Translation != "table" {
		t.Errorf("got %+v", c)
	}

	_, err = DecodeJSON[card](`["Tisch"]`)
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected *ErrInvalidResponse for wrong shape, got %T", err)
	}

	_, err = DecodeJSON[card](`no json`)
	var jsonErr *ErrInvalidJSON
	if !errors.As(err, &jsonErr) {
		t.Fatalf("expected *ErrInvalidJSON, got %T", err)
	}
}
