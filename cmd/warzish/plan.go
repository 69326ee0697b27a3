package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build meal plans and total them against current food data",
}

var planNotes string

var planCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty meal plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreatePlan(sqldb, service.CreatePlanInput{Name: args[0], Notes: planNotes})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %d\n", id)
			return nil
		})
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meal plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			plans, err := service.ListPlans(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tNOTES")
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", p.ID, p.Name, p.Notes)
			}
			return nil
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a meal plan's items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.ResolvePlan(sqldb, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %d\nName: %s\n", p.ID, p.Name)
			if p.Notes != "" {
				fmt.Fprintf(out, "Notes: %s\n", p.Notes)
			}
			fmt.Fprintln(out, "ITEM\tPOS\tCATEGORY\tFOOD\tQTY")
			for _, it := range p.Items {
				fmt.Fprintf(out, "%d\t%d\t%s\t%s\t%.2f\n", it.ID, it.Position, it.Category, it.FoodRef, it.Quantity)
			}
			return nil
		})
	},
}

var (
	planItemFood     string
	planItemQuantity float64
	planItemUnit     string
	planItemCategory string
	planItemNotes    string
)

var planAddItemCmd = &cobra.Command{
	Use:   "add-item <plan>",
	Short: "Append a food to a meal plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.PlanItemInput{
			Plan:     args[0],
			Food:     planItemFood,
			Quantity: planItemQuantity,
			Unit:     planItemUnit,
			Category: planItemCategory,
			Notes:    planItemNotes,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddPlanItem(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added plan item %d\n", id)
			return nil
		})
	},
}

var planRemoveItemCmd = &cobra.Command{
	Use:   "remove-item <plan> <item-id>",
	Short: "Remove an item from a meal plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseInt64Arg("item id", args[1])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.RemovePlanItem(sqldb, args[0], itemID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed plan item %d\n", itemID)
			return nil
		})
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a meal plan and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeletePlan(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		})
	},
}

var planNutritionJSON bool

var planNutritionCmd = &cobra.Command{
	Use:   "nutrition <id|name>",
	Short: "Total a meal plan using current food data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, summary, err := service.PlanNutrition(sqldb, args[0])
			if err != nil {
				return err
			}
			if planNutritionJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"plan": p, "nutrition": summary})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan: %s\n", p.Name)
			for _, c := range summary.OrderedCategories() {
				cs := summary.Categories[c]
				fmt.Fprintf(out, "%s (%d items): %s\n", c, len(cs.Items), macrosLine(cs.Totals))
			}
			fmt.Fprintf(out, "Total: %s\n", macrosLine(summary.Total))
			for _, s := range summary.Skipped {
				fmt.Fprintf(out, "Skipped item %d (%s): %s\n", s.Index+1, s.FoodRef, s.Reason)
			}
			return nil
		})
	},
}

var (
	planLogDate string
	planLogTime string
)

var planLogCmd = &cobra.Command{
	Use:   "log <id|name>",
	Short: "Log every item of a meal plan as entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseDateTimeOrNow(planLogDate, planLogTime)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			ids, skipped, err := service.LogPlan(sqldb, service.LogPlanInput{Plan: args[0], ConsumedAt: at})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d entries from plan %s\n", len(ids), args[0])
			for _, s := range skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped item %d (%s): %s\n", s.Index+1, s.FoodRef, s.Reason)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planCreateCmd, planListCmd, planShowCmd, planAddItemCmd, planRemoveItemCmd, planDeleteCmd, planNutritionCmd, planLogCmd)

	planCreateCmd.Flags().StringVar(&planNotes, "notes", "", "Notes")

	planAddItemCmd.Flags().StringVar(&planItemFood, "food", "", "Food id, ref or name")
	planAddItemCmd.Flags().Float64Var(&planItemQuantity, "quantity", 0, "Quantity")
	planAddItemCmd.Flags().StringVar(&planItemUnit, "unit", "", "Unit of --quantity (default: the food's serving unit)")
	planAddItemCmd.Flags().StringVar(&planItemCategory, "category", "", "Meal category")
	planAddItemCmd.Flags().StringVar(&planItemNotes, "notes", "", "Notes")
	_ = planAddItemCmd.MarkFlagRequired("food")
	_ = planAddItemCmd.MarkFlagRequired("quantity")
	_ = planAddItemCmd.MarkFlagRequired("category")

	planNutritionCmd.Flags().BoolVar(&planNutritionJSON, "json", false, "Output JSON")

	planLogCmd.Flags().StringVar(&planLogDate, "date", "", "Date YYYY-MM-DD (default now)")
	planLogCmd.Flags().StringVar(&planLogTime, "time", "", "Time HH:MM")
}
