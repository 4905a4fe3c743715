package llm

// DefaultModel is the OpenRouter model used when none is selected.
const DefaultModel = "deepseek/deepseek-chat"

// ModelInfo describes a curated model choice.
type ModelInfo struct {
	ID   string
	Name string
}

// Models is the curated OpenRouter catalog offered to the learner.
var Models = []ModelInfo{
	{ID: "deepseek/deepseek-chat", Name: "DeepSeek Chat"},
	{ID: "mistralai/mistral-7b-instruct:free", Name: "Mistral 7B Instruct (free)"},
	{ID: "google/gemma-7b-it:free", Name: "Gemma 7B (free)"},
	{ID: "google/gemini-pro-1.0", Name: "Gemini Pro 1.0"},
}

// LookupModel returns the catalog entry for id, if present.
func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}
