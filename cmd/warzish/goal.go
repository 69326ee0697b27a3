package warzish

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track weight and body-fat goals",
}

var (
	goalType          string
	goalCurrentWeight float64
	goalTargetWeight  float64
	goalTargetBodyFat float64
	goalUnit          string
	goalMonths        int
	goalStartDate     string
	goalNotes         string
)

var goalCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a goal; it replaces any active goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		in := service.CreateGoalInput{
			Type:            goalType,
			CurrentWeight:   optionalFloat(flags.Changed("current-weight"), goalCurrentWeight),
			TargetWeight:    optionalFloat(flags.Changed("target-weight"), goalTargetWeight),
			TargetBodyFat:   optionalFloat(flags.Changed("target-body-fat"), goalTargetBodyFat),
			WeightUnit:      weightUnit(goalUnit),
			TimeframeMonths: goalMonths,
			Notes:           goalNotes,
		}
		if goalStartDate != "" {
			start, err := parseDateTime(goalStartDate, "")
			if err != nil {
				return err
			}
			in.StartDate = start
		}
		return withDB(func(sqldb *sql.DB) error {
			g, err := service.CreateGoal(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %d (%s), target date %s\n", g.ID, g.Type, g.TargetDate.Local().Format("2006-01-02"))
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a goal and its progress entries (default: the active goal)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			g, err := goalFromArgs(sqldb, args)
			if err != nil {
				return err
			}
			if g == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No active goal")
				return nil
			}
			return printGoal(cmd.OutOrStdout(), g, weightUnit(goalUnit))
		})
	},
}

// goalFromArgs resolves an optional id argument, falling back to the active
// goal. It returns nil when there is no argument and no active goal.
func goalFromArgs(sqldb *sql.DB, args []string) (*model.Goal, error) {
	if len(args) == 0 {
		return service.ActiveGoal(sqldb)
	}
	id, err := parseInt64Arg("goal id", args[0])
	if err != nil {
		return nil, err
	}
	return service.GoalByID(sqldb, id)
}

func printGoal(out io.Writer, g *model.Goal, unit string) error {
	fmt.Fprintf(out, "ID: %d\nType: %s\nActive: %t\n", g.ID, g.Type, g.IsActive)
	weights := []struct {
		label string
		kg    *float64
	}{
		{"Start weight", g.StartWeightKg},
		{"Target weight", g.TargetWeightKg},
	}
	for _, w := range weights {
		if w.kg == nil {
			continue
		}
		v, err := service.WeightFromKg(*w.kg, unit)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %.1f %s\n", w.label, v, unit)
	}
	if g.TargetBodyFatPct != nil {
		fmt.Fprintf(out, "Target body fat: %.1f%%\n", *g.TargetBodyFatPct)
	}
	fmt.Fprintf(out, "Start: %s\nTarget date: %s (%d months)\n", g.StartDate.Local().Format("2006-01-02"), g.TargetDate.Local().Format("2006-01-02"), g.TimeframeMonths)
	if g.Notes != "" {
		fmt.Fprintf(out, "Notes: %s\n", g.Notes)
	}
	if len(g.Progress) == 0 {
		return nil
	}
	fmt.Fprintln(out, "ID\tRECORDED\tWEIGHT\tBODY_FAT")
	for _, p := range g.Progress {
		weight, fat := "-", "-"
		if p.WeightKg != nil {
			v, err := service.WeightFromKg(*p.WeightKg, unit)
			if err != nil {
				return err
			}
			weight = fmt.Sprintf("%.1f %s", v, unit)
		}
		if p.BodyFatPct != nil {
			fat = fmt.Sprintf("%.1f%%", *p.BodyFatPct)
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", p.ID, p.RecordedAt.Local().Format("2006-01-02 15:04"), weight, fat)
	}
	return nil
}

var goalListAll bool

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			goals, err := service.ListGoals(sqldb, goalListAll)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTYPE\tACTIVE\tSTART\tTARGET_DATE")
			for _, g := range goals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%t\t%s\t%s\n", g.ID, g.Type, g.IsActive, g.StartDate.Local().Format("2006-01-02"), g.TargetDate.Local().Format("2006-01-02"))
			}
			return nil
		})
	},
}

var goalUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a goal; a new timeframe counts from the original start date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("goal id", args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		in := service.UpdateGoalInput{
			ID:            id,
			TargetWeight:  optionalFloat(flags.Changed("target-weight"), goalTargetWeight),
			TargetBodyFat: optionalFloat(flags.Changed("target-body-fat"), goalTargetBodyFat),
			WeightUnit:    weightUnit(goalUnit),
		}
		if flags.Changed("months") {
			in.TimeframeMonths = &goalMonths
		}
		if flags.Changed("notes") {
			in.Notes = &goalNotes
		}
		return withDB(func(sqldb *sql.DB) error {
			g, err := service.UpdateGoal(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %d, target date %s\n", g.ID, g.TargetDate.Local().Format("2006-01-02"))
			return nil
		})
	},
}

var (
	progressGoalID  int64
	progressWeight  float64
	progressBodyFat float64
	progressDate    string
	progressTime    string
	progressNotes   string
)

var goalProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Record a weight or body-fat measurement against a goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseDateTimeOrNow(progressDate, progressTime)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		in := service.ProgressInput{
			GoalID:     progressGoalID,
			Weight:     optionalFloat(flags.Changed("weight"), progressWeight),
			WeightUnit: weightUnit(goalUnit),
			BodyFatPct: optionalFloat(flags.Changed("body-fat"), progressBodyFat),
			RecordedAt: at,
			Notes:      progressNotes,
		}
		return withDB(func(sqldb *sql.DB) error {
			if in.GoalID == 0 {
				active, err := service.ActiveGoal(sqldb)
				if err != nil {
					return err
				}
				if active == nil {
					return fmt.Errorf("no active goal; pass --goal")
				}
				in.GoalID = active.ID
			}
			id, err := service.AddProgress(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded progress %d for goal %d\n", id, in.GoalID)
			return nil
		})
	},
}

var goalStatusJSON bool

var goalStatusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show completion percentage and time left (default: the active goal)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			g, err := goalFromArgs(sqldb, args)
			if err != nil {
				return err
			}
			if g == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No active goal")
				return nil
			}
			st, err := service.Status(sqldb, g.ID, time.Now())
			if err != nil {
				return err
			}
			if goalStatusJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Goal %d (%s)\n", g.ID, g.Type)
			fmt.Fprintf(out, "Progress: %.1f%%\n", st.Percent)
			fmt.Fprintf(out, "State: %s\n", st.State)
			fmt.Fprintf(out, "Time: %s\n", st.Summary)
			if st.Latest != nil && st.Latest.WeightKg != nil {
				unit := weightUnit(goalUnit)
				v, err := service.WeightFromKg(*st.Latest.WeightKg, unit)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Latest weight: %.1f %s on %s\n", v, unit, st.Latest.RecordedAt.Local().Format("2006-01-02"))
			}
			return nil
		})
	},
}

var goalDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a goal without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeactivateGoal(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated goal %d\n", id)
			return nil
		})
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a goal and its progress entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("goal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteGoal(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalCreateCmd, goalShowCmd, goalListCmd, goalUpdateCmd, goalProgressCmd, goalStatusCmd, goalDeactivateCmd, goalDeleteCmd)

	goalCreateCmd.Flags().StringVar(&goalType, "type", "", "Goal type (lose, gain, maintain)")
	goalCreateCmd.Flags().Float64Var(&goalCurrentWeight, "current-weight", 0, "Current weight (default: profile or last recorded weight)")
	goalCreateCmd.Flags().StringVar(&goalStartDate, "start-date", "", "Start date YYYY-MM-DD (default today)")
	_ = goalCreateCmd.MarkFlagRequired("type")

	for _, c := range []*cobra.Command{goalCreateCmd, goalUpdateCmd} {
		c.Flags().Float64Var(&goalTargetWeight, "target-weight", 0, "Target weight")
		c.Flags().Float64Var(&goalTargetBodyFat, "target-body-fat", 0, "Target body fat percentage (1-40)")
		c.Flags().IntVar(&goalMonths, "months", 3, "Timeframe in months (1-36)")
		c.Flags().StringVar(&goalNotes, "notes", "", "Notes")
	}
	for _, c := range []*cobra.Command{goalCreateCmd, goalUpdateCmd, goalShowCmd, goalProgressCmd, goalStatusCmd} {
		c.Flags().StringVar(&goalUnit, "unit", "", "Weight unit kg or lb (default units.weight)")
	}

	goalListCmd.Flags().BoolVar(&goalListAll, "all", false, "Include inactive goals")

	goalProgressCmd.Flags().Int64Var(&progressGoalID, "goal", 0, "Goal id (default: the active goal)")
	goalProgressCmd.Flags().Float64Var(&progressWeight, "weight", 0, "Body weight")
	goalProgressCmd.Flags().Float64Var(&progressBodyFat, "body-fat", 0, "Body fat percentage")
	goalProgressCmd.Flags().StringVar(&progressDate, "date", "", "Date YYYY-MM-DD (default now)")
	goalProgressCmd.Flags().StringVar(&progressTime, "time", "", "Time HH:MM")
	goalProgressCmd.Flags().StringVar(&progressNotes, "notes", "", "Notes")

	goalStatusCmd.Flags().BoolVar(&goalStatusJSON, "json", false, "Output JSON")
}
