// Package cli provides the command-line interface of flupdo.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	flupdo "github.com/biyonik/go-flupdo"
	"github.com/biyonik/go-flupdo/internal/config"
)

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "flupdo",
		Short: "flupdo - composable SQL statements from the command line",
		Long: `flupdo renders and runs SQL statements against MySQL, Sphinx and SQLite.

Connection settings come from flupdo.yaml, .env files, FLUPDO_* environment
variables and flags, in increasing order of precedence.`,
		Version: flupdo.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./flupdo.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pf.String("driver", "", "Database driver (mysql|sphinx|sqlite)")
	pf.String("dsn", "", "Complete data source name, overrides the connection fields")
	pf.String("host", "", "Database host")
	pf.Int("port", 0, "Database port (0 for the driver default)")
	pf.String("database", "", "Database name, or file path for sqlite")
	pf.String("username", "", "Database user")
	pf.String("password", "", "Database password")
	pf.Bool("log-query", false, "Log every statement")
	pf.Bool("log-explain", false, "Log the EXPLAIN output of SELECT statements")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"mysql", "sphinx", "sqlite"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newQuoteIdentCommand())
	rootCmd.AddCommand(newQuoteCommand())
	rootCmd.AddCommand(newSelectCommand())
	rootCmd.AddCommand(newExecCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newExplainCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *flupdo.Config {
	if c, ok := ctx.Value(configKey{}).(*flupdo.Config); ok {
		return c
	}
	return flupdo.DefaultConfig()
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// openDB connects using the loaded config.
func openDB(cmd *cobra.Command) (*flupdo.Flupdo, error) {
	ctx := cmd.Context()
	return flupdo.Open(ctx, getConfig(ctx), flupdo.WithLogger(getLogger(ctx)))
}
