package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // database path; empty means the platform default
	Driver  string // database/sql driver name

	Config Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the contacts CLI.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Contacts - a local contact book",
		Long: `A local contact book backed by an embedded SQLite database.

Environment:
  CONTACTS_DB          database path (overridden by --db)
  CONTACTS_DRIVER      sqlite3 or sqlite (overridden by --driver)
  CONTACTS_LOG_LEVEL   debug, info, warn or error
  CONTACTS_LOG_FORMAT  text or json
  CONTACTS_LOG_FILE    append logs to this file instead of stderr`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.applyConfig(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the contacts database (default: platform data directory)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", store.DefaultDriver, "SQLite driver (sqlite3|sqlite)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewPathCommand(opts))

	return cmd, opts
}

// applyConfig reads the environment and fills in every option whose flag
// was not set explicitly.
func (o *RootOptions) applyConfig(cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid environment", err)
	}
	o.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("db") && cfg.DB != "" {
		o.DB = cfg.DB
	}
	if !flags.Changed("driver") && cfg.Driver != "" {
		o.Driver = cfg.Driver
	}
	if !store.IsValidDriver(o.Driver) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid driver %q: must be one of [%s %s]", o.Driver, store.DriverCGO, store.DriverPureGo))
	}
	return nil
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// Execute runs the CLI with args and returns the process exit code.
// Failures are reported on stdout in JSON mode and on stderr otherwise.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if !isReported(err) {
		f := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
		if f.Format == "json" {
			f.Writer = stdout
		}
		_ = f.Error(errorCode(err), err.Error(), nil)
	}
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
