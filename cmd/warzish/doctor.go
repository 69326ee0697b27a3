package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries with deleted foods: %d\n", report.OrphanEntries)
			fmt.Fprintf(out, "Plan items with deleted foods: %d\n", report.OrphanPlanItems)
			fmt.Fprintf(out, "Extra active goals: %d\n", report.ExtraActiveGoals)
			if doctorFix {
				fmt.Fprintf(out, "Deactivated goals: %d\n", report.FixedGoals)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if report.ExtraActiveGoals > 0 {
				return fmt.Errorf("doctor found integrity issues (run with --fix)")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Deactivate all but the newest active goal")
}
