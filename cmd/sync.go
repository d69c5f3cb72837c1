package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd is the parent command for LMS synchronization.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize local records with the LMS",
}

// syncStudentsCmd pulls every LMS student and reconciles local profiles.
var syncStudentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Sync LMS students into local profiles",
	Long: `Reads every student from the LMS and, matching on phone number,
creates missing local profiles, links existing ones and refreshes changed emails.

Running it twice in a row is safe: the second run reports everything unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		report, runErr := rt.syncService(cmd.Context()).Run(cmd.Context())
		if report != nil {
			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			rt.logger.Info("Sync finished",
				zap.String("run_id", report.RunID),
				zap.String("status", string(report.Status)),
				zap.Duration("duration", report.Duration()))
		}
		return runErr
	},
}

func init() {
	syncCmd.AddCommand(syncStudentsCmd)
	RootCmd.AddCommand(syncCmd)
}
