package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var (
	rangeFrom      string
	rangeTo        string
	rangeTolerance float64
	rangeJSON      bool
)

var rangeCmd = &cobra.Command{
	Use:     "range",
	Aliases: []string{"analytics"},
	Short:   "Summarize totals, averages and target adherence over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(rangeFrom)
		if err != nil {
			return err
		}
		to, err := parseDay(rangeTo)
		if err != nil {
			return err
		}
		if to.Before(from) {
			return fmt.Errorf("--to must not be before --from")
		}
		loc, err := location()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.AnalyticsRange(sqldb, from, to, loc, rangeTolerance)
			if err != nil {
				return err
			}
			if rangeJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Range: %s to %s\n", report.FromDate, report.ToDate)
			fmt.Fprintf(out, "Days with entries: %d\n", report.DaysWithEntries)
			fmt.Fprintf(out, "Total: %s\n", macrosLine(report.Total))
			fmt.Fprintf(out, "Average/day: %s\n", macrosLine(report.AveragePerDay))
			if report.HighestDay != nil {
				fmt.Fprintf(out, "Highest: %s (%.1f kcal)\n", report.HighestDay.Date, report.HighestDay.Total.Calories)
			}
			if report.LowestDay != nil {
				fmt.Fprintf(out, "Lowest: %s (%.1f kcal)\n", report.LowestDay.Date, report.LowestDay.Total.Calories)
			}
			a := report.Adherence
			fmt.Fprintf(out, "Adherence: %d/%d days within %.0f%% (%.1f%%)\n", a.WithinTargetDays, a.EvaluatedDays, rangeTolerance*100, a.PercentWithin)
			fmt.Fprintln(out, "DATE\tKCAL\tP\tC\tF")
			for _, d := range report.Days {
				fmt.Fprintf(out, "%s\t%.1f\t%.1f\t%.1f\t%.1f\n", d.Date, d.Total.Calories, d.Total.ProteinG, d.Total.CarbsG, d.Total.FatG)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "Start date YYYY-MM-DD")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "today", "End date YYYY-MM-DD")
	rangeCmd.Flags().Float64Var(&rangeTolerance, "tolerance", 0.10, "Calorie tolerance as a fraction of target")
	rangeCmd.Flags().BoolVar(&rangeJSON, "json", false, "Output JSON")
	_ = rangeCmd.MarkFlagRequired("from")
}
