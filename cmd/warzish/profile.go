package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the biometric profile used for target recommendations",
}

var (
	profileGender   string
	profileWeight   float64
	profileUnit     string
	profileHeight   float64
	profileAge      int
	profileActivity string
	profileGoal     string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the biometric profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.SetProfileInput{
			Gender:        profileGender,
			Weight:        profileWeight,
			WeightUnit:    weightUnit(profileUnit),
			HeightCm:      profileHeight,
			AgeYears:      profileAge,
			ActivityLevel: profileActivity,
			Goal:          profileGoal,
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.SetProfile(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile (%s, %.1f kg, %.0f cm, %d y)\n", p.Gender, p.WeightKg, p.HeightCm, p.AgeYears)
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the biometric profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetProfile(sqldb)
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile configured")
				return nil
			}
			unit := weightUnit(profileUnit)
			w, err := service.WeightFromKg(p.WeightKg, unit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Gender: %s\n", p.Gender)
			fmt.Fprintf(out, "Weight: %.1f %s\n", w, unit)
			fmt.Fprintf(out, "Height: %.1f cm\n", p.HeightCm)
			fmt.Fprintf(out, "Age: %d\n", p.AgeYears)
			fmt.Fprintf(out, "Activity: %s\n", p.ActivityLevel)
			fmt.Fprintf(out, "Goal: %s\n", p.Goal)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)

	profileSetCmd.Flags().StringVar(&profileGender, "gender", "", "Gender (male, female, other)")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Body weight")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height-cm", 0, "Height in centimeters")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", "sedentary", "Activity level (sedentary, light, moderate, active, very_active)")
	profileSetCmd.Flags().StringVar(&profileGoal, "goal", "maintain", "Goal (lose, gain, maintain)")
	for _, c := range []*cobra.Command{profileSetCmd, profileShowCmd} {
		c.Flags().StringVar(&profileUnit, "unit", "", "Weight unit kg or lb (default units.weight)")
	}
}
