package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/contact"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all contacts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.refresh(); err != nil {
				return err
			}
			return s.out.Success(contactTable(s.ctrl.Contacts()))
		},
	}
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name  string
	Phone string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long: `Add a contact to the book.

Name and phone are trimmed and stored in Unicode NFC. The phone number is
free text; no format is enforced.

Example:
  contacts add --name "Ann Lee" --phone "555-0100"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone number")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctrl.CreateNew(s.ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to add contact", err)
	}
	s.ctrl.SetCurrentItem(contact.New(opts.Name, opts.Phone))
	if err := s.ctrl.SaveNew(s.ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to add contact", err)
	}
	saved := s.ctrl.CurrentItem()
	s.out.VerboseLog("Added contact %d", saved.ID)

	if err := s.refresh(); err != nil {
		return err
	}
	return s.out.Success(contactRow(saved))
}

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Name  string
	Phone string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a contact",
		Long: `Change the name and/or phone number of a stored contact.

Fields whose flag is not given keep their stored value.

Example:
  contacts edit 3 --phone "555-0199"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new contact name")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "new contact phone number")

	return cmd
}

func runEdit(opts *EditOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	row, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.ctrl.SelectForEdit(s.ctx, contact.Contact(row)); err != nil {
		return WrapExitError(ExitFailure, "failed to edit contact", err)
	}

	item := s.ctrl.CurrentItem()
	if cmd.Flags().Changed("name") {
		item.Name = opts.Name
	}
	if cmd.Flags().Changed("phone") {
		item.PhoneNumber = opts.Phone
	}
	s.ctrl.SetCurrentItem(item)

	if err := s.ctrl.SaveEdit(s.ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to edit contact", err)
	}
	if err := s.refresh(); err != nil {
		return err
	}

	updated, err := s.find(id)
	if err != nil {
		return err
	}
	return s.out.Success(updated)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a contact",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
}

func runDelete(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	row, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.ctrl.SelectForEdit(s.ctx, contact.Contact(row)); err != nil {
		return WrapExitError(ExitFailure, "failed to delete contact", err)
	}
	if err := s.ctrl.DeleteCurrent(s.ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to delete contact", err)
	}
	if err := s.refresh(); err != nil {
		return err
	}
	return s.out.Success(row)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid contact id %q: must be a positive integer", arg))
	}
	return id, nil
}
