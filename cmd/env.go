package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/deutschlern/internal/config"
	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/history"
	"github.com/abhisek/deutschlern/internal/llm"
	"github.com/abhisek/deutschlern/internal/logger"
	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/speech"
	"github.com/abhisek/deutschlern/internal/store"
)

// env holds everything a command needs. Commands that only read the store
// use openEnv; the ones that talk to a model use openServices.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
}

// close flushes the log and closes the database.
func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	e.log.Sync()
}

// loadConfig reads the config file named by --config and applies --db.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	return cfg, nil
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	if len(cfg.Unknown) > 0 {
		log.Warn("unknown config keys ignored", "keys", cfg.Unknown)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	return &env{cfg: cfg, log: log, store: st}, nil
}

// resolveDBPath returns the database path from config (which already holds
// --db and DEUTSCHLERN_DB), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// llmSettings applies --provider and --model on top of the loaded config.
func llmSettings(cmd *cobra.Command, cfg config.Config) llm.Config {
	out := cfg.LLMSettings()
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		out.Provider = p
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		out.SetModel(m)
	}
	return out
}

// openServices builds the collaborators shared by the TUI and the one-shot
// commands. Speech that cannot be configured is replaced by
// speech.Unavailable carrying the reason.
func openServices(cmd *cobra.Command) (*env, screen.Services, llm.Config, error) {
	e, err := openEnv(cmd)
	if err != nil {
		return nil, screen.Services{}, llm.Config{}, err
	}
	if err := e.cfg.Validate(); err != nil {
		e.close()
		return nil, screen.Services{}, llm.Config{}, fmt.Errorf("invalid config: %w", err)
	}

	llmCfg := llmSettings(cmd, e.cfg)
	provider, err := llm.NewProvider(cmd.Context(), llmCfg, e.store.EventRepo(), e.log)
	if err != nil {
		e.close()
		return nil, screen.Services{}, llm.Config{}, err
	}

	orch := content.New(provider, history.New(history.DefaultCapacity), e.log, content.Config{
		Temperature: llmCfg.Temperature,
		MaxTokens:   llmCfg.MaxTokens,
	})
	assessment, listening := e.cfg.QuizSettings()

	svc := screen.Services{
		Orchestrator: orch,
		Reports:      report.NewService(e.store.KVRepo()),
		Recognizer:   newRecognizer(e.cfg, e.log),
		Synthesizer:  newSynthesizer(e.cfg, e.log),
		Voice:        e.cfg.Speech.Voice,
		Assessment:   assessment,
		Listening:    listening,
		Log:          e.log,
	}
	e.log.Info("services ready", "provider", llmCfg.Provider, "model", llmCfg.Model())
	return e, svc.WithDefaults(), llmCfg, nil
}

func newRecognizer(cfg config.Config, log *logger.Logger) speech.Recognizer {
	r, err := speech.NewWhisperRecognizer(speech.WhisperConfig{
		APIKey:        cfg.SpeechKey(),
		BaseURL:       cfg.Speech.BaseURL,
		Model:         cfg.Speech.TranscriptionModel,
		Language:      cfg.Speech.Language,
		RecordCommand: cfg.Speech.RecordCommand,
	}, log)
	if err != nil {
		log.Info("speech recognition disabled", "error", err)
		return speech.Unavailable{Reason: "speech recognition needs an OpenAI API key ([speech] api_key or OPENAI_API_KEY)"}
	}
	return r
}

func newSynthesizer(cfg config.Config, log *logger.Logger) speech.Synthesizer {
	s, err := speech.NewTTSSynthesizer(speech.TTSConfig{
		APIKey:      cfg.SpeechKey(),
		BaseURL:     cfg.Speech.BaseURL,
		Model:       cfg.Speech.TTSModel,
		Voice:       cfg.Speech.Voice,
		PlayCommand: cfg.Speech.PlayCommand,
	}, log)
	if err != nil {
		log.Info("speech synthesis disabled", "error", err)
		return speech.Unavailable{Reason: "speech output needs an OpenAI API key ([speech] api_key or OPENAI_API_KEY)"}
	}
	return s
}
