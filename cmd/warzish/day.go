package warzish

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

var (
	dayJSON bool
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD|today]",
	Short: "Show a day's totals by meal and against the target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		day, err := parseDay(raw)
		if err != nil {
			return err
		}
		loc, err := location()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.DaySummary(sqldb, day, loc)
			if err != nil {
				return err
			}
			if dayJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printDay(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

func printDay(out io.Writer, r *service.DayReport) {
	s := r.Summary
	fmt.Fprintf(out, "Date: %s\n", s.Date)
	for _, c := range s.OrderedCategories() {
		cs := s.Categories[c]
		fmt.Fprintf(out, "%s (%d entries): %s\n", c, len(cs.Entries), macrosLine(cs.Totals))
	}
	fmt.Fprintf(out, "Total: %s\n", macrosLine(s.Total))
	if r.Target == nil {
		fmt.Fprintln(out, "Target: none (set one with `warzish target set` or `warzish profile set`)")
		return
	}
	fmt.Fprintf(out, "Target (%s): %d kcal | P %.0fg | C %.0fg | F %.0fg\n", r.Target.Source, r.Target.Calories, r.Target.ProteinG, r.Target.CarbsG, r.Target.FatG)
	if r.Percent != nil {
		fmt.Fprintf(out, "Percent: %.0f%% kcal | P %.0f%% | C %.0f%% | F %.0f%%\n", r.Percent.Calories, r.Percent.ProteinG, r.Percent.CarbsG, r.Percent.FatG)
	}
	if r.Remaining != nil {
		fmt.Fprintf(out, "Remaining: %s\n", macrosLine(*r.Remaining))
	}
	fmt.Fprintf(out, "Within target: %t\n", r.WithinTarget)
}

func macrosLine(m model.Macros) string {
	return fmt.Sprintf("%.1f kcal | P %.1fg | C %.1fg | F %.1fg", m.Calories, m.ProteinG, m.CarbsG, m.FatG)
}

func init() {
	rootCmd.AddCommand(dayCmd)
	dayCmd.Flags().BoolVar(&dayJSON, "json", false, "Output JSON")
}
