package warzish

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local warzish database, restoring default foods into an empty food list",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqldb, path, seeded, err := openDB(true)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized warzish database at %s\n", path)
		if seeded > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d default foods\n", seeded)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
