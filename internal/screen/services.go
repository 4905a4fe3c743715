package screen

import (
	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/logger"
	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/session"
	"github.com/abhisek/deutschlern/internal/speech"
)

// Services are the collaborators shared by every screen.
type Services struct {
	Orchestrator *content.Orchestrator
	Reports      *report.Service
	Recognizer   speech.Recognizer
	Synthesizer  speech.Synthesizer
	Voice        string
	Assessment   session.Config
	Listening    session.Config
	Log          *logger.Logger
}

// WithDefaults fills unset collaborators: speech falls back to
// speech.Unavailable and the logger to a no-op logger.
func (s Services) WithDefaults() Services {
	if s.Recognizer == nil {
		s.Recognizer = speech.Unavailable{Reason: "speech recognition is not configured"}
	}
	if s.Synthesizer == nil {
		s.Synthesizer = speech.Unavailable{Reason: "speech synthesis is not configured"}
	}
	if s.Log == nil {
		s.Log = logger.Nop()
	}
	if s.Assessment.Length == 0 {
		s.Assessment = session.AssessmentConfig()
	}
	if s.Listening.Length == 0 {
		s.Listening = session.ListeningConfig()
	}
	return s
}
