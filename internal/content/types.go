package content

// Kind tags the variant held by a Content value.
type Kind int

const (
	KindMarkdown Kind = iota
	KindAssessment
	KindSpeaking
	KindListening
)

func (k Kind) String() string {
	switch k {
	case KindAssessment:
		return "assessment"
	case KindSpeaking:
		return "speaking"
	case KindListening:
		return "listening"
	default:
		return "markdown"
	}
}

// Content is generated learning material. Exactly one payload matching Kind
// is set. Failed marks a markdown placeholder synthesized from an error.
type Content struct {
	Kind       Kind
	Markdown   string
	Assessment *AssessmentItem
	Speaking   *SpeakingItem
	Listening  *ListeningItem
	Failed     bool
}

// AssessmentItem is a fill-in-the-blank question. The blank is "___".
type AssessmentItem struct {
	Sentence      string   `json:"sentence"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Translation   string   `json:"translation"`
}

// SpeakingItem is a sentence to read aloud.
type SpeakingItem struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

// ListeningItem is a short script with one comprehension question.
// OptionTranslations is parallel to Options.
type ListeningItem struct {
	Script              string   `json:"script"`
	Translation         string   `json:"translation"`
	Question            string   `json:"question"`
	QuestionTranslation string   `json:"questionTranslation"`
	Options             []string `json:"options"`
	OptionTranslations  []string `json:"optionsTranslations"`
	CorrectAnswer       string   `json:"correctAnswer"`
}

// VocabularyCard is a flashcard for one word.
type VocabularyCard struct {
	Word               string `json:"word"`
	Translation        string `json:"translation"`
	ExampleSentence    string `json:"exampleSentence"`
	ExampleTranslation string `json:"exampleTranslation"`
}

// WordStatus is the verdict for one spoken word.
type WordStatus string

const (
	WordCorrect       WordStatus = "correct"
	WordIncorrect     WordStatus = "incorrect"
	WordMispronounced WordStatus = "mispronounced"
)

// WordAnalysis is the per-word part of PronunciationFeedback.
type WordAnalysis struct {
	Word                  string     `json:"word"`
	Status                WordStatus `json:"status"`
	Comment               string     `json:"comment,omitempty"`
	PhoneticTranscription string     `json:"phoneticTranscription,omitempty"`
	ImprovementSuggestion string     `json:"improvementSuggestion,omitempty"`
}

// PronunciationFeedback compares a target sentence with what was heard.
type PronunciationFeedback struct {
	OverallComment string         `json:"overallComment"`
	Score          int            `json:"score"`
	AnalyzedWords  []WordAnalysis `json:"analyzedWords"`
}
