package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage daily calorie and macro targets",
}

var (
	targetCalories int
	targetProtein  float64
	targetCarbs    float64
	targetFat      float64
	targetDate     string
)

var targetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set daily targets with an effective date",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := location()
		if err != nil {
			return err
		}
		in := service.SetTargetInput{
			Calories:      targetCalories,
			ProteinG:      targetProtein,
			CarbsG:        targetCarbs,
			FatG:          targetFat,
			EffectiveDate: targetDate,
			Location:      loc,
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetTarget(sqldb, in); err != nil {
				return err
			}
			if in.EffectiveDate == "" {
				in.EffectiveDate = "today"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set target effective %s\n", in.EffectiveDate)
			return nil
		})
	},
}

var currentTargetDate string

var targetCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the target in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := location()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			t, err := service.CurrentTarget(sqldb, currentTargetDate, loc)
			if err != nil {
				return err
			}
			if t == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No target configured")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Effective: %s (%s)\n", t.EffectiveDate, t.Source)
			fmt.Fprintf(cmd.OutOrStdout(), "Calories: %d\nProtein: %.1fg\nCarbs: %.1fg\nFat: %.1fg\n", t.Calories, t.ProteinG, t.CarbsG, t.FatG)
			return nil
		})
	},
}

var targetHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show target history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			targets, err := service.TargetHistory(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "EFFECTIVE\tSOURCE\tKCAL\tP\tC\tF")
			for _, t := range targets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%.1f\t%.1f\t%.1f\n", t.EffectiveDate, t.Source, t.Calories, t.ProteinG, t.CarbsG, t.FatG)
			}
			return nil
		})
	},
}

var (
	recommendApply bool
	recommendDate  string
	recommendJSON  bool
)

var targetRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend targets from the biometric profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := location()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			rec, err := service.Recommendation(sqldb)
			if err != nil {
				return err
			}
			if recommendJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BMR: %.1f kcal\n", rec.BMR)
			fmt.Fprintf(out, "Activity multiplier: %.3f\n", rec.Multiplier)
			fmt.Fprintf(out, "TDEE: %.1f kcal\n", rec.TDEE)
			fmt.Fprintf(out, "Goal adjustment: %+.0f kcal\n", rec.Adjustment)
			t := rec.Target
			fmt.Fprintf(out, "Recommended: %d kcal | P %.0fg | C %.0fg | F %.0fg\n", t.Calories, t.ProteinG, t.CarbsG, t.FatG)
			if !recommendApply {
				return nil
			}
			saved, err := service.ApplyRecommendedTarget(sqldb, recommendDate, loc)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Applied recommended target effective %s\n", saved.EffectiveDate)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetSetCmd, targetCurrentCmd, targetHistoryCmd, targetRecommendCmd)

	targetSetCmd.Flags().IntVar(&targetCalories, "calories", 0, "Daily calorie target")
	targetSetCmd.Flags().Float64Var(&targetProtein, "protein", 0, "Daily protein target in grams")
	targetSetCmd.Flags().Float64Var(&targetCarbs, "carbs", 0, "Daily carbs target in grams")
	targetSetCmd.Flags().Float64Var(&targetFat, "fat", 0, "Daily fat target in grams")
	targetSetCmd.Flags().StringVar(&targetDate, "effective-date", "", "Effective date YYYY-MM-DD (default today)")
	_ = targetSetCmd.MarkFlagRequired("calories")
	_ = targetSetCmd.MarkFlagRequired("protein")
	_ = targetSetCmd.MarkFlagRequired("carbs")
	_ = targetSetCmd.MarkFlagRequired("fat")

	targetCurrentCmd.Flags().StringVar(&currentTargetDate, "date", "", "Date YYYY-MM-DD (default today)")

	targetRecommendCmd.Flags().BoolVar(&recommendApply, "apply", false, "Save the recommendation as the target")
	targetRecommendCmd.Flags().StringVar(&recommendDate, "effective-date", "", "Effective date for --apply (default today)")
	targetRecommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output JSON")
}
