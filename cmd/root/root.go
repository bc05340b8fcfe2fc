// Package root contains the root command for the application
package root

import (
	"fmt"

	"uzpay/receipt-parser/internal/config"
	"uzpay/receipt-parser/internal/container"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// App is the dependency container, wired before any subcommand runs
	App *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "receipt-parser",
		Short: "A CLI tool to parse Uzbek payment notifications into structured transactions.",
		Long: `receipt-parser converts raw bank and payment-system notification text
(HUMO push, inline SMS and semicolon-delimited layouts) into structured
transaction records, falling back to AI extraction for unrecognized text,
and resolves counterparty labels to canonical application names.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to receipt-parser!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			Log = config.ConfigureLoggingFromConfig(cfg)

			App, err = container.NewContainer(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialization error: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if App != nil {
				if err := App.Close(); err != nil {
					Log.Warnf("Failed to close container: %v", err)
				}
			}
		},
	}
)
