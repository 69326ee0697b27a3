package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage foods and their per-unit nutrients",
}

var (
	foodName     string
	foodBrand    string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodFiber    float64
	foodSugar    float64
	foodSodium   float64
	foodUnit     string
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food with nutrients per serving unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.FoodInput{
			Name:        foodName,
			Brand:       foodBrand,
			CaloriesPer: foodCalories,
			ProteinPer:  foodProtein,
			CarbsPer:    foodCarbs,
			FatPer:      foodFat,
			FiberPer:    optionalFloat(cmd.Flags().Changed("fiber"), foodFiber),
			SugarPer:    optionalFloat(cmd.Flags().Changed("sugar"), foodSugar),
			SodiumPer:   optionalFloat(cmd.Flags().Changed("sodium"), foodSodium),
			ServingUnit: foodUnit,
		}
		return withDB(func(sqldb *sql.DB) error {
			food, err := service.CreateFood(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %d (%s) ref %s\n", food.ID, food.Name, food.Ref)
			return nil
		})
	},
}

var (
	foodListQuery string
	foodListLimit int
)

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.ListFoods(sqldb, service.ListFoodsFilter{Query: foodListQuery, Limit: foodListLimit})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tUNIT\tKCAL\tP\tC\tF\tDEFAULT")
			for _, f := range foods {
				p := f.Profile
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%t\n", f.ID, f.Name, p.ServingUnit, p.CaloriesPerUnit, p.ProteinPerUnit, p.CarbsPerUnit, p.FatPerUnit, f.IsDefault)
			}
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id|ref|name>",
	Short: "Show a food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			f, err := service.ResolveFood(sqldb, args[0])
			if err != nil {
				return err
			}
			printFood(cmd, f)
			return nil
		})
	},
}

func printFood(cmd *cobra.Command, f *model.Food) {
	out := cmd.OutOrStdout()
	p := f.Profile
	fmt.Fprintf(out, "ID: %d\nRef: %s\nName: %s\n", f.ID, f.Ref, f.Name)
	if f.Brand != "" {
		fmt.Fprintf(out, "Brand: %s\n", f.Brand)
	}
	fmt.Fprintf(out, "Per %s: %.2f kcal, P %.2fg, C %.2fg, F %.2fg\n", p.ServingUnit, p.CaloriesPerUnit, p.ProteinPerUnit, p.CarbsPerUnit, p.FatPerUnit)
	if p.FiberPerUnit != nil {
		fmt.Fprintf(out, "Fiber: %.2fg\n", *p.FiberPerUnit)
	}
	if p.SugarPerUnit != nil {
		fmt.Fprintf(out, "Sugar: %.2fg\n", *p.SugarPerUnit)
	}
	if p.SodiumPerUnit != nil {
		fmt.Fprintf(out, "Sodium: %.2fmg\n", *p.SodiumPerUnit)
	}
	fmt.Fprintf(out, "Default: %t\n", f.IsDefault)
}

var foodUpdateCmd = &cobra.Command{
	Use:   "update <id|ref|name>",
	Short: "Update a food; logged entries keep their stored nutrients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			current, err := service.ResolveFood(sqldb, args[0])
			if err != nil {
				return err
			}
			in := foodInputFrom(current)
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = foodName
			}
			if flags.Changed("brand") {
				in.Brand = foodBrand
			}
			if flags.Changed("calories") {
				in.CaloriesPer = foodCalories
			}
			if flags.Changed("protein") {
				in.ProteinPer = foodProtein
			}
			if flags.Changed("carbs") {
				in.CarbsPer = foodCarbs
			}
			if flags.Changed("fat") {
				in.FatPer = foodFat
			}
			if flags.Changed("fiber") {
				in.FiberPer = &foodFiber
			}
			if flags.Changed("sugar") {
				in.SugarPer = &foodSugar
			}
			if flags.Changed("sodium") {
				in.SodiumPer = &foodSodium
			}
			if flags.Changed("unit") {
				in.ServingUnit = foodUnit
			}
			updated, err := service.UpdateFood(sqldb, current.Ref, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated food %d (%s)\n", updated.ID, updated.Name)
			return nil
		})
	},
}

func foodInputFrom(f *model.Food) service.FoodInput {
	p := f.Profile
	return service.FoodInput{
		Name:        f.Name,
		Brand:       f.Brand,
		CaloriesPer: p.CaloriesPerUnit,
		ProteinPer:  p.ProteinPerUnit,
		CarbsPer:    p.CarbsPerUnit,
		FatPer:      p.FatPerUnit,
		FiberPer:    p.FiberPerUnit,
		SugarPer:    p.SugarPerUnit,
		SodiumPer:   p.SodiumPerUnit,
		ServingUnit: string(p.ServingUnit),
	}
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id|ref|name>",
	Short: "Delete a food; plan items using it are skipped from then on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteFood(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd, foodUpdateCmd, foodDeleteCmd)

	for _, c := range []*cobra.Command{foodAddCmd, foodUpdateCmd} {
		c.Flags().StringVar(&foodName, "name", "", "Food name")
		c.Flags().StringVar(&foodBrand, "brand", "", "Brand")
		c.Flags().Float64Var(&foodCalories, "calories", 0, "Calories per unit")
		c.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams per unit")
		c.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carbs grams per unit")
		c.Flags().Float64Var(&foodFat, "fat", 0, "Fat grams per unit")
		c.Flags().Float64Var(&foodFiber, "fiber", 0, "Fiber grams per unit")
		c.Flags().Float64Var(&foodSugar, "sugar", 0, "Sugar grams per unit")
		c.Flags().Float64Var(&foodSodium, "sodium", 0, "Sodium milligrams per unit")
		c.Flags().StringVar(&foodUnit, "unit", "gram", "Serving unit (gram, milliliter, ounce, cup, tablespoon, teaspoon, piece)")
	}
	_ = foodAddCmd.MarkFlagRequired("name")
	_ = foodAddCmd.MarkFlagRequired("calories")

	foodListCmd.Flags().StringVar(&foodListQuery, "query", "", "Filter by name")
	foodListCmd.Flags().IntVar(&foodListLimit, "limit", 0, "Max rows (default 100, negative for all)")
}
