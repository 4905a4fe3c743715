package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/speech"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <level> <skill>",
	Short: "Generate one exercise and print it",
	Long: "Generate one exercise for a level and skill. Reading and Writing print markdown;\n" +
		"Assessment, Speaking and Listening print the structured item as JSON.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		skill, err := content.ParseSkill(args[1])
		if err != nil {
			return err
		}
		if skill == content.SkillVocabulary {
			return fmt.Errorf("use `deutschlern vocab %s` for flashcards", lvl.ID)
		}

		e, svc, _, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		c, err := svc.Orchestrator.Generate(cmd.Context(), lvl.ID, skill)
		if err != nil {
			return err
		}

		switch c.Kind {
		case content.KindAssessment:
			return printJSON(c.Assessment)
		case content.KindSpeaking:
			return printJSON(c.Speaking)
		case content.KindListening:
			return printJSON(c.Listening)
		}
		fmt.Println(c.Markdown)
		return nil
	},
}

var vocabCmd = &cobra.Command{
	Use:   "vocab <level>",
	Short: "Generate a vocabulary flashcard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		cat := content.VocabularyCategory(strings.ToLower(category))
		if cat != content.CategoryNoun && cat != content.CategoryAdjective {
			return fmt.Errorf("unknown category %q (want noun or adjective)", category)
		}
		count, _ := cmd.Flags().GetInt("count")

		e, svc, _, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		for i := 0; i < count; i++ {
			card, err := svc.Orchestrator.GenerateVocabulary(cmd.Context(), lvl.ID, cat)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s  →  %s\n", card.Word, card.Translation)
			fmt.Printf("  %s\n  %s\n", card.ExampleSentence, card.ExampleTranslation)
		}
		return nil
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate <german text>",
	Short: "Translate German text into English or Tamil",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := targetFlag(cmd)
		if err != nil {
			return err
		}

		e, svc, _, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		out, err := svc.Orchestrator.Translate(cmd.Context(), strings.Join(args, " "), target)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant about a German word or phrase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := targetFlag(cmd)
		if err != nil {
			return err
		}
		speak, _ := cmd.Flags().GetBool("speak")

		e, svc, _, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		answer, err := svc.Orchestrator.Ask(cmd.Context(), strings.Join(args, " "), target)
		if err != nil {
			return err
		}
		fmt.Println(answer)

		if speak && answer != "" {
			if err := speakAndWait(cmd.Context(), svc.Synthesizer, answer, svc.Voice); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		return nil
	},
}

func targetFlag(cmd *cobra.Command) (content.TargetLanguage, error) {
	to, _ := cmd.Flags().GetString("to")
	return content.ParseTargetLanguage(to)
}

// speakAndWait plays text and blocks until playback ends.
func speakAndWait(ctx context.Context, synth speech.Synthesizer, text, voice string) error {
	done := make(chan struct{})
	var failure error
	err := synth.Speak(ctx, text, voice, speech.SynthesisEvents{
		OnError: func(err error) { failure = err },
		OnEnd:   func() { close(done) },
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return failure
	case <-ctx.Done():
		synth.Cancel()
		return ctx.Err()
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func init() {
	vocabCmd.Flags().StringP("category", "c", string(content.CategoryNoun), "Word category: noun or adjective")
	vocabCmd.Flags().IntP("count", "n", 1, "Number of cards to generate")

	translateCmd.Flags().StringP("to", "t", string(content.LanguageEnglish), "Target language: English or Tamil")
	askCmd.Flags().StringP("to", "t", string(content.LanguageEnglish), "Answer language: English or Tamil")
	askCmd.Flags().BoolP("speak", "s", false, "Read the answer aloud")
}
