/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/stylelint-provision/pkg/buildinfo"
	"github.com/fulmenhq/stylelint-provision/pkg/exitcode"
	"github.com/fulmenhq/stylelint-provision/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stylelint-provision [dir...]",
		Short: "Add stylelint to a project's package.json",
		Long: `stylelint-provision adds stylelint to one or more npm projects: a shareable
config preset, the lint script, the stylelint config section and the dev
dependencies. Existing package.json values are kept; only missing keys are
filled in, so running it again changes nothing.

Examples:
   stylelint-provision                          # Ask for a preset, provision ./package.json
   stylelint-provision --preset standard web    # Provision web/package.json with stylelint-config-standard
   stylelint-provision --preset foo=^1.0.0 --preset bar=latest
   stylelint-provision --dry-run --skip-after   # Print the result without writing
   stylelint-provision presets                  # List the built-in presets`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		RunE: runProvision,
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs and results in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Alias of --dry-run")

	addProvisionFlags(cmd)

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("stylelint-provision {{.Version}}\n")

	registerSubcommands(cmd)
	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newPresetsCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with a code derived from the error.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		logger.Debug("Command execution failed", logger.Err(err), logger.String("kind", exitcode.String(code)))
		rootCmd.PrintErrln("Error:", err)
		os.Exit(code)
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor && os.Getenv("NO_COLOR") == "",
		JSON:      jsonLogs,
		Component: logger.DefaultComponent,
		DryRun:    noOp || dryRun,
	}

	if err := logger.InitializeWithWriter(config, cmd.ErrOrStderr()); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
