package content

import "github.com/abhisek/deutschlern/internal/llm"

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "description": desc}
}

func strArray(desc string, minItems int) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"minItems":    minItems,
		"description": desc,
	}
}

// AssessmentSchema describes a fill-in-the-blank question.
var AssessmentSchema = &llm.Schema{
	Name:        "assessment-item",
	Description: "A German fill-in-the-blank question with three options",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sentence": str("German sentence with one blank written as ___"),
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    3,
				"maxItems":    3,
				"description": "The correct word and two plausible distractors",
			},
			"correctAnswer": str("The option that fills the blank"),
			"translation":   map[string]any{"type": "string"},
		},
		"required": []string{"sentence", "options", "correctAnswer", "translation"},
	},
}

// SpeakingSchema describes a sentence to read aloud.
var SpeakingSchema = &llm.Schema{
	Name:        "speaking-item",
	Description: "A German sentence with its English translation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sentence":    str("German sentence"),
			"translation": map[string]any{"type": "string"},
		},
		"required": []string{"sentence", "translation"},
	},
}

// ListeningSchema describes a listening comprehension exercise.
var ListeningSchema = &llm.Schema{
	Name:        "listening-item",
	Description: "A German script with a multiple-choice comprehension question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"script":              str("German audio script"),
			"translation":         map[string]any{"type": "string"},
			"question":            str("Comprehension question in German"),
			"questionTranslation": map[string]any{"type": "string"},
			"options":             strArray("Answer options in German", 2),
			"optionsTranslations": strArray("English translations parallel to options", 2),
			"correctAnswer":       str("The exact correct option"),
		},
		"required": []string{
			"script", "translation", "question", "questionTranslation",
			"options", "optionsTranslations", "correctAnswer",
		},
	},
}

// VocabularySchema describes a vocabulary flashcard.
var VocabularySchema = &llm.Schema{
	Name:        "vocabulary-card",
	Description: "A German word with translation and example",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":               str("German word"),
			"translation":        str("English translation"),
			"exampleSentence":    map[string]any{"type": "string"},
			"exampleTranslation": map[string]any{"type": "string"},
		},
		"required": []string{"word", "translation", "exampleSentence", "exampleTranslation"},
	},
}

// PronunciationSchema describes pronunciation feedback. Word statuses are
// normalized and checked after decoding.
var PronunciationSchema = &llm.Schema{
	Name:        "pronunciation-feedback",
	Description: "Word-by-word pronunciation analysis",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overallComment": map[string]any{"type": "string"},
			"score":          map[string]any{"type": "number"},
			"analyzedWords": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":                  map[string]any{"type": "string"},
						"status":                map[string]any{"type": "string"},
						"comment":               map[string]any{"type": "string"},
						"phoneticTranscription": map[string]any{"type": "string"},
						"improvementSuggestion": map[string]any{"type": "string"},
					},
					"required": []string{"word", "status"},
				},
			},
		},
		"required": []string{"overallComment", "score", "analyzedWords"},
	},
}
