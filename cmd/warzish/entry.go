package warzish

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Log and manage meal entries",
}

var (
	entryFood     string
	entryQuantity float64
	entryUnit     string
	entryCategory string
	entryDate     string
	entryTime     string
	entryNotes    string
)

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a food eaten in some quantity",
	RunE: func(cmd *cobra.Command, args []string) error {
		consumed, err := parseDateTimeOrNow(entryDate, entryTime)
		if err != nil {
			return err
		}
		in := service.CreateEntryInput{
			Food:     entryFood,
			Quantity: entryQuantity,
			Unit:     entryUnit,
			Category: entryCategory,
			Consumed: consumed,
			Notes:    entryNotes,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateEntry(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d\n", id)
			return nil
		})
	},
}

var (
	listDate     string
	listFromDate string
	listToDate   string
	listCategory string
	listLimit    int
)

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := location()
		if err != nil {
			return err
		}
		filter := service.ListEntriesFilter{
			Date:     listDate,
			FromDate: listFromDate,
			ToDate:   listToDate,
			Category: listCategory,
			Limit:    listLimit,
			Location: loc,
		}
		return withDB(func(sqldb *sql.DB) error {
			entries, err := service.ListEntries(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tCATEGORY\tFOOD\tQTY\tKCAL\tP\tC\tF")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%.2f\t%.1f\t%.1f\t%.1f\t%.1f\n", e.ID, e.ConsumedAt.In(loc).Format("2006-01-02 15:04"), e.Category, e.FoodName, e.Quantity, e.Consumed.Calories, e.Consumed.ProteinG, e.Consumed.CarbsG, e.Consumed.FatG)
			}
			return nil
		})
	},
}

var entryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			e, err := service.EntryByID(sqldb, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %d\n", e.ID)
			fmt.Fprintf(out, "Date: %s\n", e.ConsumedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Category: %s\n", e.Category)
			fmt.Fprintf(out, "Food: %s (%s)\n", e.FoodName, e.FoodRef)
			fmt.Fprintf(out, "Quantity: %.2f\n", e.Quantity)
			fmt.Fprintf(out, "Calories: %.1f\n", e.Consumed.Calories)
			fmt.Fprintf(out, "Protein: %.1f\nCarbs: %.1f\nFat: %.1f\n", e.Consumed.ProteinG, e.Consumed.CarbsG, e.Consumed.FatG)
			fmt.Fprintf(out, "Notes: %s\n", e.Notes)
			return nil
		})
	},
}

var entryUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an entry; nutrients are recomputed only when food or quantity change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		in := service.UpdateEntryInput{ID: id, Unit: entryUnit}
		flags := cmd.Flags()
		if flags.Changed("food") {
			in.Food = &entryFood
		}
		if flags.Changed("quantity") {
			in.Quantity = &entryQuantity
		}
		if flags.Changed("category") {
			in.Category = &entryCategory
		}
		if flags.Changed("notes") {
			in.Notes = &entryNotes
		}
		if flags.Changed("date") || flags.Changed("time") {
			consumed, err := parseDateTime(entryDate, entryTime)
			if err != nil {
				return err
			}
			in.Consumed = &consumed
		}
		return withDB(func(sqldb *sql.DB) error {
			e, err := service.UpdateEntry(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d (%.1f kcal)\n", e.ID, e.Consumed.Calories)
			return nil
		})
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteEntry(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryShowCmd, entryUpdateCmd, entryDeleteCmd)

	for _, c := range []*cobra.Command{entryAddCmd, entryUpdateCmd} {
		c.Flags().StringVar(&entryFood, "food", "", "Food id, ref or name")
		c.Flags().Float64Var(&entryQuantity, "quantity", 0, "Quantity eaten")
		c.Flags().StringVar(&entryUnit, "unit", "", "Unit of --quantity (default: the food's serving unit)")
		c.Flags().StringVar(&entryCategory, "category", "", "Meal category (breakfast, lunch, dinner, snack)")
		c.Flags().StringVar(&entryDate, "date", "", "Date YYYY-MM-DD (default now)")
		c.Flags().StringVar(&entryTime, "time", "", "Time HH:MM")
		c.Flags().StringVar(&entryNotes, "notes", "", "Notes")
	}
	_ = entryAddCmd.MarkFlagRequired("food")
	_ = entryAddCmd.MarkFlagRequired("quantity")
	_ = entryAddCmd.MarkFlagRequired("category")

	entryListCmd.Flags().StringVar(&listDate, "date", "", "Filter by date YYYY-MM-DD")
	entryListCmd.Flags().StringVar(&listFromDate, "from", "", "Filter from date YYYY-MM-DD")
	entryListCmd.Flags().StringVar(&listToDate, "to", "", "Filter to date YYYY-MM-DD")
	entryListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	entryListCmd.Flags().IntVar(&listLimit, "limit", 0, "Max rows to return")
}
