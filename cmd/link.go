package cmd

import (
	"fmt"
	"strconv"

	"student-crm/feature/students"

	"github.com/spf13/cobra"
)

// linkCmd links one local student to its LMS profile.
var linkCmd = &cobra.Command{
	Use:   "link <student-id>",
	Short: "Link a local student to the LMS by phone number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid student id %q", args[0])
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		svc := students.NewService(rt.db, rt.lms, rt.logger)
		result, err := svc.LinkStudent(cmd.Context(), uint(id))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(linkCmd)
}
