package content

import (
	"fmt"
	"strings"
)

// Skill is a practice area offered for every level.
type Skill string

const (
	SkillReading    Skill = "Reading"
	SkillWriting    Skill = "Writing"
	SkillListening  Skill = "Listening"
	SkillSpeaking   Skill = "Speaking"
	SkillVocabulary Skill = "Vocabulary"
	SkillAssessment Skill = "Assessment"
)

// Skills lists the skills in menu order.
var Skills = []Skill{
	SkillReading,
	SkillWriting,
	SkillListening,
	SkillSpeaking,
	SkillVocabulary,
	SkillAssessment,
}

// ParseSkill matches a skill by name, ignoring case.
func ParseSkill(s string) (Skill, error) {
	for _, sk := range Skills {
		if strings.EqualFold(string(sk), s) {
			return sk, nil
		}
	}
	return "", fmt.Errorf("unknown skill %q", s)
}

// VocabularyCategory selects the kind of word a flashcard teaches.
type VocabularyCategory string

const (
	CategoryNoun      VocabularyCategory = "noun"
	CategoryAdjective VocabularyCategory = "adjective"
)

// TargetLanguage is a language translations and assistant replies are given in.
type TargetLanguage string

const (
	LanguageEnglish TargetLanguage = "English"
	LanguageTamil   TargetLanguage = "Tamil"
)

// ParseTargetLanguage matches a target language by name, ignoring case.
func ParseTargetLanguage(s string) (TargetLanguage, error) {
	for _, l := range []TargetLanguage{LanguageEnglish, LanguageTamil} {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported target language %q (want English or Tamil)", s)
}
