package warzish

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

var (
	exportFormat string
	exportOut    string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export local data (json, or csv for entries only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			switch strings.ToLower(strings.TrimSpace(exportFormat)) {
			case "json":
				data, err := service.ExportDataSnapshot(sqldb)
				if err != nil {
					return err
				}
				b, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal export json: %w", err)
				}
				if err := os.WriteFile(exportOut, b, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
			case "csv":
				if err := exportEntriesCSV(sqldb, exportOut); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported --format %q (use json or csv)", exportFormat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

func exportEntriesCSV(sqldb *sql.DB, path string) error {
	entries, err := service.ListEntries(sqldb, service.ListEntriesFilter{})
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export csv: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"food_ref", "food_name", "quantity", "category", "consumed_at", "calories", "protein_g", "carbs_g", "fat_g", "notes"}); err != nil {
		return fmt.Errorf("write export csv header: %w", err)
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, e := range entries {
		record := []string{
			e.FoodRef,
			e.FoodName,
			num(e.Quantity),
			string(e.Category),
			e.ConsumedAt.Format("2006-01-02T15:04:05-07:00"),
			num(e.Consumed.Calories),
			num(e.Consumed.ProteinG),
			num(e.Consumed.CarbsG),
			num(e.Consumed.FatG),
			e.Notes,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write export csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export csv: %w", err)
	}
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a json export",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		raw, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		var payload service.ExportData
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("parse import json: %w", err)
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ImportDataSnapshot(sqldb, &payload, service.ImportOptions{
				Mode:   service.ImportMode(strings.ToLower(strings.TrimSpace(importMode))),
				DryRun: importDryRun,
			})
			if err != nil {
				return err
			}
			verb := "Imported"
			if importDryRun {
				verb = "Would import"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d rows (%d skipped) from %s\n", verb, report.Inserted, report.Skipped, importIn)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json|csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")

	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "Import mode: merge|replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
}
