package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deutschlern",
	Short: "AI German tutor for the terminal",
	Long: "DeutschLern: a terminal app for learning German from A1 to C2 with AI-generated\n" +
		"lessons, quizzes, flashcards, pronunciation practice, a translator and a voice assistant.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/deutschlern/config.toml)")
	pf.String("db", "", "Path to SQLite database file (overrides DEUTSCHLERN_DB)")
	pf.String("provider", "", "LLM provider: openrouter, openai, anthropic, gemini or mock")
	pf.String("model", "", "Model for the selected provider")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}
