// Package content composes prompts for each skill, sends them through the
// LLM gateway and turns the replies into typed learning material.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/deutschlern/internal/history"
	"github.com/abhisek/deutschlern/internal/llm"
	"github.com/abhisek/deutschlern/internal/logger"
)

// Config controls generation requests.
type Config struct {
	// Temperature controls LLM output randomness.
	Temperature float64

	// MaxTokens is the token budget per response. Zero leaves it to the provider.
	MaxTokens int
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{Temperature: llm.DefaultTemperature}
}

// Orchestrator generates learning content. History is shared across all
// callers; each consumer versions its own requests with an Epoch.
type Orchestrator struct {
	provider llm.Provider
	history  *history.Cache
	log      *logger.Logger
	config   Config
}

// New creates an Orchestrator. A nil history or logger gets a fresh cache or
// a no-op logger.
func New(provider llm.Provider, hist *history.Cache, log *logger.Logger, cfg Config) *Orchestrator {
	if hist == nil {
		hist = history.New(history.DefaultCapacity)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{provider: provider, history: hist, log: log, config: cfg}
}

// History exposes the deduplication cache.
func (o *Orchestrator) History() *history.Cache {
	return o.history
}

// ClearHistory forgets everything generated for level and skill, including
// vocabulary categories.
func (o *Orchestrator) ClearHistory(level string, skill Skill) {
	o.history.Clear(level, string(skill))
}

// Generate produces content for a skill. Assessment, Speaking and Listening
// are structured; every other skill is markdown.
func (o *Orchestrator) Generate(ctx context.Context, level string, skill Skill) (Content, error) {
	switch skill {
	case SkillAssessment:
		item, err := o.GenerateAssessment(ctx, level)
		if err != nil {
			return Content{}, err
		}
		return Content{Kind: KindAssessment, Assessment: item}, nil
	case SkillSpeaking:
		item, err := o.GenerateSpeaking(ctx, level)
		if err != nil {
			return Content{}, err
		}
		return Content{Kind: KindSpeaking, Speaking: item}, nil
	case SkillListening:
		item, err := o.GenerateListening(ctx, level)
		if err != nil {
			return Content{}, err
		}
		return Content{Kind: KindListening, Listening: item}, nil
	default:
		md, err := o.GenerateMarkdown(ctx, level, skill)
		if err != nil {
			return Content{}, err
		}
		return Content{Kind: KindMarkdown, Markdown: md}, nil
	}
}

// GenerateMarkdown produces a free-form exercise. The first characters of
// the reply are remembered as its topic.
func (o *Orchestrator) GenerateMarkdown(ctx context.Context, level string, skill Skill) (string, error) {
	key := history.Key{Level: level, Skill: string(skill)}
	prompt := markdownPrompt(level, skill) + " " + o.history.PromptFragment(key, nounMarkdown)

	text, err := o.complete(llm.WithPurpose(ctx, llm.PurposeLesson), llm.System(teacherSystemPrompt), llm.User(prompt))
	if err != nil {
		return "", err
	}

	o.history.Record(key, fingerprint(text))
	return text, nil
}

// GenerateAssessment produces one fill-in-the-blank question.
func (o *Orchestrator) GenerateAssessment(ctx context.Context, level string) (*AssessmentItem, error) {
	key := history.Key{Level: level, Skill: string(SkillAssessment)}
	prompt := assessmentPrompt(level, o.history.PromptFragment(key, nounAssessment))

	item, err := generateJSON[AssessmentItem](llm.WithPurpose(ctx, llm.PurposeAssessment), o, prompt, AssessmentSchema)
	if err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, o.invalid(item, err)
	}

	o.history.Record(key, item.Sentence)
	return item, nil
}

// GenerateSpeaking produces a sentence to read aloud.
func (o *Orchestrator) GenerateSpeaking(ctx context.Context, level string) (*SpeakingItem, error) {
	key := history.Key{Level: level, Skill: string(SkillSpeaking)}
	prompt := speakingPrompt(level, o.history.PromptFragment(key, nounSpeaking))

	item, err := generateJSON[SpeakingItem](llm.WithPurpose(ctx, llm.PurposeSpeaking), o, prompt, SpeakingSchema)
	if err != nil {
		return nil, err
	}

	o.history.Record(key, item.Sentence)
	return item, nil
}

// GenerateListening produces a listening comprehension exercise.
func (o *Orchestrator) GenerateListening(ctx context.Context, level string) (*ListeningItem, error) {
	key := history.Key{Level: level, Skill: string(SkillListening)}
	prompt := listeningPrompt(level, o.history.PromptFragment(key, nounListening))

	item, err := generateJSON[ListeningItem](llm.WithPurpose(ctx, llm.PurposeListening), o, prompt, ListeningSchema)
	if err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, o.invalid(item, err)
	}

	o.history.Record(key, item.Script)
	return item, nil
}

// GenerateVocabulary produces a flashcard for the given word category.
func (o *Orchestrator) GenerateVocabulary(ctx context.Context, level string, category VocabularyCategory) (*VocabularyCard, error) {
	key := history.Key{Level: level, Skill: string(SkillVocabulary), Category: string(category)}
	prompt := vocabularyPrompt(level, category, o.history.PromptFragment(key, nounVocabulary))

	card, err := generateJSON[VocabularyCard](llm.WithPurpose(ctx, llm.PurposeVocabulary), o, prompt, VocabularySchema)
	if err != nil {
		return nil, err
	}

	o.history.Record(key, card.Word)
	return card, nil
}

// AnalyzePronunciation compares the target sentence with a transcript of
// what the learner said.
func (o *Orchestrator) AnalyzePronunciation(ctx context.Context, sentence, transcript string) (*PronunciationFeedback, error) {
	prompt := pronunciationPrompt(sentence, transcript)

	out, err := generateJSON[pronunciationOutput](llm.WithPurpose(ctx, llm.PurposePronunciation), o, prompt, PronunciationSchema)
	if err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(out)
	return out.normalize(raw)
}

// Translate translates German text. Empty input returns "" without a call.
func (o *Orchestrator) Translate(ctx context.Context, text string, target TargetLanguage) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	reply, err := o.complete(llm.WithPurpose(ctx, llm.PurposeTranslate), llm.User(translatePrompt(text, target)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Ask answers a question about a German word or phrase. The reply is cleaned
// for speech output. Empty queries return "" without a call.
func (o *Orchestrator) Ask(ctx context.Context, query string, target TargetLanguage) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}
	reply, err := o.complete(llm.WithPurpose(ctx, llm.PurposeAssistant), llm.User(assistantPrompt(query, target)))
	if err != nil {
		return "", err
	}
	return CleanAssistantReply(reply), nil
}

var (
	speechNoise = regexp.MustCompile(`[*:]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// CleanAssistantReply removes characters that read badly aloud: asterisks
// and colons become spaces and whitespace runs collapse.
func CleanAssistantReply(s string) string {
	s = speechNoise.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func (o *Orchestrator) complete(ctx context.Context, msgs ...llm.Message) (string, error) {
	resp, err := o.provider.Generate(ctx, llm.Request{
		Messages:    msgs,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// generateJSON runs a structured request: JSON system prompt, extraction,
// schema validation and decoding into T.
func generateJSON[T any](ctx context.Context, o *Orchestrator, prompt string, schema *llm.Schema) (*T, error) {
	text, err := o.complete(ctx, llm.System(jsonSystemPrompt), llm.User(prompt))
	if err != nil {
		return nil, err
	}

	raw, err := llm.ExtractJSON(text)
	if err != nil {
		var jsonErr *llm.ErrInvalidJSON
		if errors.As(err, &jsonErr) {
			o.log.Warn("model returned invalid JSON", "schema", schema.Name, "raw", jsonErr.Raw)
		}
		return nil, err
	}

	if err := llm.ValidateJSON(schema, raw); err != nil {
		o.log.Warn("model returned unexpected JSON", "schema", schema.Name, "raw", string(raw), "error", err)
		return nil, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("decode %s: %w", schema.Name, err)}
	}
	return &out, nil
}

func (o *Orchestrator) invalid(item any, err error) error {
	raw, _ := json.Marshal(item)
	o.log.Warn("generated item failed validation", "item", string(raw), "error", err)
	return &llm.ErrInvalidResponse{Content: raw, Err: err}
}

// fingerprint keeps the first characters of a markdown reply, cut on a rune
// boundary.
func fingerprint(text string) string {
	runes := []rune(text)
	if len(runes) <= markdownFingerprintLen {
		return text
	}
	return string(runes[:markdownFingerprintLen])
}
