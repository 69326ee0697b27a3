package warzish

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		resolved := *cfg
		resolved.DBPath = path
		return writeJSON(cmd.OutOrStdout(), resolved)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
