package cmd

import (
	"fmt"

	"student-crm/core/database"
	"student-crm/feature/students/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// requiredColumns lists the columns the sync and the CRM routes depend on, per table.
var requiredColumns = map[string][]string{
	"users":                   {"id", "username", "email", "password_hash"},
	"programs":                {"id", "name"},
	"sub_programs":            {"id", "program_id", "name"},
	"courses":                 {"id", "sub_program_id", "name", "fee_amount"},
	"batches":                 {"id", "name", "course_id", "start_date", "primary_mentor_id"},
	"batch_secondary_mentors": {"batch_id", "user_id"},
	"students":                {"id", "user_id", "crm_student_id", "program_id", "batch_id", "mobile", "email", "lms_student_id", "is_active"},
	"transactions":            {"id", "student_id", "transaction_id", "amount", "date"},
}

// migrateCmd creates or updates the schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := rt.db.WithContext(cmd.Context()).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		for table, columns := range requiredColumns {
			missing, err := database.MissingColumns(rt.db, table, columns)
			if err != nil {
				return fmt.Errorf("failed to inspect %s: %w", table, err)
			}
			if len(missing) > 0 {
				return fmt.Errorf("table %s is missing columns %v", table, missing)
			}
		}

		rt.logger.Info("Schema is up to date", zap.Int("tables", len(requiredColumns)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
