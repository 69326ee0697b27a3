package warzish

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/app"
	"github.com/usman-wf/warzish-sub000/internal/config"
	"github.com/usman-wf/warzish-sub000/internal/logging"
)

var (
	dbPath     string
	configFile string
	logLevel   string

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "warzish",
	Short: "warzish tracks meals, meal plans and weight goals from your terminal",
	Long:  "warzish is a local-first nutrition tracker: log foods, follow meal plans, compare days against calorie and macro targets, and track weight goals.",
	// Errors are printed once by Execute.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		userDir, err := app.UserDir()
		if err != nil {
			userDir = ""
		}
		loaded, err := config.Load(configFile, userDir)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		if _, err := logging.Setup(logging.Options{
			Level:        loaded.Log.Level,
			Format:       loaded.Log.Format,
			Out:          cmd.ErrOrStderr(),
			LogstashAddr: loaded.Log.LogstashAddr,
			ElasticURL:   loaded.Log.ElasticURL,
			ElasticIndex: loaded.Log.ElasticIndex,
		}); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides db.path)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default: ./config.yml or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides log.level)")
}
