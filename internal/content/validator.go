package content

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/abhisek/deutschlern/internal/llm"
)

// Validate checks that the correct answer is one of the options.
func (a *AssessmentItem) Validate() error {
	if !slices.Contains(a.Options, a.CorrectAnswer) {
		return fmt.Errorf("correct answer %q is not among options %q", a.CorrectAnswer, a.Options)
	}
	return nil
}

// Validate checks that the correct answer is one of the options and that
// every option has a translation.
func (l *ListeningItem) Validate() error {
	if !slices.Contains(l.Options, l.CorrectAnswer) {
		return fmt.Errorf("correct answer %q is not among options %q", l.CorrectAnswer, l.Options)
	}
	if len(l.OptionTranslations) != len(l.Options) {
		return fmt.Errorf("%d option translations for %d options", len(l.OptionTranslations), len(l.Options))
	}
	return nil
}

// pronunciationOutput is the raw model output; score may be fractional.
type pronunciationOutput struct {
	OverallComment string         `json:"overallComment"`
	Score          float64        `json:"score"`
	AnalyzedWords  []WordAnalysis `json:"analyzedWords"`
}

// normalize clamps the score to 0..100 and checks every word status.
func (p pronunciationOutput) normalize(raw json.RawMessage) (*PronunciationFeedback, error) {
	fb := &PronunciationFeedback{
		OverallComment: p.OverallComment,
		Score:          int(math.Round(math.Max(0, math.Min(100, p.Score)))),
		AnalyzedWords:  make([]WordAnalysis, len(p.AnalyzedWords)),
	}
	for i, w := range p.AnalyzedWords {
		w.Status = WordStatus(strings.ToLower(strings.TrimSpace(string(w.Status))))
		switch w.Status {
		case WordCorrect, WordIncorrect, WordMispronounced:
		default:
			return nil, &llm.ErrInvalidResponse{
				Content: raw,
				Err:     fmt.Errorf("word %q has unknown status %q", w.Word, w.Status),
			}
		}
		fb.AnalyzedWords[i] = w
	}
	return fb, nil
}

// IsCorrect reports whether answer is the correct option.
func (a *AssessmentItem) IsCorrect(answer string) bool {
	return answer == a.CorrectAnswer
}

// IsCorrect reports whether answer is the correct option.
func (l *ListeningItem) IsCorrect(answer string) bool {
	return answer == l.CorrectAnswer
}
