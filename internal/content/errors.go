package content

import (
	"errors"
	"strings"

	"github.com/abhisek/deutschlern/internal/llm"
)

const apiKeyHint = "Add your API key to the config file or set DEUTSCHLERN_OPENROUTER_API_KEY, then restart deutschlern."

// UserMessage converts a generation error into text for the learner.
// Raw model output is never included.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var invErr *llm.ErrInvalidResponse
	if errors.As(err, &invErr) {
		return "The AI returned content in an unexpected format. Please try again."
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "Could not generate content."
	}
	return msg
}

// ErrorMarkdown renders a generation error as a markdown placeholder. A
// missing API key gets an actionable hint.
func ErrorMarkdown(err error) string {
	msg := UserMessage(err)
	var keyErr *llm.ErrAPIKeyNotSet
	if errors.As(err, &keyErr) {
		msg += "\n\n" + apiKeyHint
	}
	return "### ❌ Error\n\n" + msg
}

// ErrorContent wraps a generation error as failed markdown content.
func ErrorContent(err error) Content {
	return Content{Kind: KindMarkdown, Markdown: ErrorMarkdown(err), Failed: true}
}

// FailedFeedback is shown when pronunciation analysis fails: the error text
// as the comment, a zero score and every word of sentence marked incorrect.
func FailedFeedback(sentence string, err error) *PronunciationFeedback {
	msg := UserMessage(err)
	if msg == "" {
		msg = "Couldn't analyze your speech."
	}
	words := strings.Fields(sentence)
	fb := &PronunciationFeedback{
		OverallComment: msg,
		Score:          0,
		AnalyzedWords:  make([]WordAnalysis, len(words)),
	}
	for i, w := range words {
		fb.AnalyzedWords[i] = WordAnalysis{Word: w, Status: WordIncorrect, Comment: "Analysis failed"}
	}
	return fb
}
