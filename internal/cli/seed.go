package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/seed"
)

// SeedResult is the output of the seed command.
type SeedResult struct {
	Added []contactRow `json:"added"`
	Count int          `json:"count"`
}

func (r SeedResult) String() string {
	rows := make(contactTable, len(r.Added))
	for i, c := range r.Added {
		rows[i] = c.contact()
	}
	return rows.String()
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <dir>",
		Short: "Add contacts from a CUE seed package",
		Long: `Load the "contacts" list of the CUE package in <dir> and add every entry.

Example seed file:
  package seed

  contacts: [
  	{name: "Ann", phone: "555-0100"},
  	{name: "Bob"},
  ]`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], cmd)
		},
	}
}

func runSeed(opts *RootOptions, dir string, cmd *cobra.Command) error {
	contacts, err := seed.Load(dir)
	if err != nil {
		var loadErr *seed.LoadError
		if errors.As(err, &loadErr) && loadErr.Code == seed.ErrCodeNotFound {
			return WrapExitError(ExitCommandError, "seed directory not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to load seed", err)
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	s.out.VerboseLog("Loaded %d contact(s) from %s", len(contacts), dir)
	added, err := seed.Apply(s.ctx, s.store, contacts)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to seed contacts", err)
	}
	if err := s.refresh(); err != nil {
		return err
	}

	result := SeedResult{Added: make([]contactRow, len(added)), Count: len(added)}
	for i, c := range added {
		result.Added[i] = contactRow(c)
	}
	return s.out.Success(result)
}
