/*
Package cmd provides the mailctl commands: one-shot campaign sends,
subscriber imports and listings run directly against the database.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ArowuTest/zithara-mail-backend/internal/app"
	"github.com/ArowuTest/zithara-mail-backend/internal/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	envFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mailctl",
	Short: "Operate the email campaign backend from the command line",
	Long: `mailctl runs campaign and subscriber operations without the HTTP API.

Example:
  mailctl send 65f0c0ffee0000000000beef        # send a campaign and wait
  mailctl import contacts.csv --owner <userId>  # import subscribers
  mailctl active --owner <userId>               # list active subscribers
  mailctl scheduled                             # list scheduled campaigns`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(activeCmd)
	rootCmd.AddCommand(scheduledCmd)
}

func initLogging() {
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if envFile != "" {
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Env file not found: %s\n", envFile)
			os.Exit(1)
		}
		os.Setenv("ENV_FILE", envFile)
	}
}

// openApp loads configuration and connects. The caller must Close it.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	return app.New(ctx, cfg)
}
