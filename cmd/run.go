package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/deutschlern/internal/app"
	"github.com/abhisek/deutschlern/internal/screen"
)

// runApp builds the services and launches the TUI. start, when non-nil,
// opens that screen on top of home instead of showing the splash.
func runApp(cmd *cobra.Command, start func(screen.Services) screen.Screen) error {
	e, svc, llmCfg, err := openServices(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	status := fmt.Sprintf("%s · %s", llmCfg.Provider, llmCfg.Model())
	if !llmCfg.HasKey() {
		status = "no API key"
	}

	return app.Run(app.Options{
		Services: svc,
		Status:   status,
		Start:    start,
	})
}
