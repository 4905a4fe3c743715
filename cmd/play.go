package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/deutschlern/internal/levels"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/screens/skills"
	"github.com/abhisek/deutschlern/internal/screens/speaking"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Start the app, optionally at a level's skill menu",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, nil)
		}
		lvl, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		return runApp(cmd, func(svc screen.Services) screen.Screen {
			return skills.New(svc, lvl)
		})
	},
}

var speakCmd = &cobra.Command{
	Use:   "speak <level>",
	Short: "Practice pronunciation at a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		return runApp(cmd, func(svc screen.Services) screen.Screen {
			return speaking.New(svc, lvl.ID)
		})
	},
}

// parseLevel accepts level IDs in any case ("b1", "B1").
func parseLevel(s string) (levels.Level, error) {
	return levels.Get(strings.ToUpper(strings.TrimSpace(s)))
}
