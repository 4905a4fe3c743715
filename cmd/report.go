package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/screens/reports"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage listening quiz reports",
}

// withReports opens the store and hands a report service to fn.
func withReports(cmd *cobra.Command, fn func(*report.Service) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(report.NewService(e.store.KVRepo()))
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReports(cmd, func(svc *report.Service) error {
			list, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No reports yet. Finish a listening quiz to create one.")
				return nil
			}

			fmt.Printf("%-36s  %-17s  %-5s  %s\n", "ID", "Created", "Level", "Score")
			fmt.Println(strings.Repeat("─", 72))
			for _, r := range list {
				fmt.Printf("%-36s  %-17s  %-5s  %d/%d\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.LevelID, r.Score, r.Total)
			}
			return nil
		})
	},
}

var reportViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print a report with every question and answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReports(cmd, func(svc *report.Service) error {
			r, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("report %s not found", args[0])
			}
			fmt.Println(reports.Markdown(*r))
			return nil
		})
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete reports by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReports(cmd, func(svc *report.Service) error {
			n, err := svc.Delete(cmd.Context(), args...)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d of %d report(s).\n", n, len(args))
			return nil
		})
	},
}

func init() {
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportViewCmd)
	reportCmd.AddCommand(reportDeleteCmd)
}
