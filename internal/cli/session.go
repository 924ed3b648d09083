package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/controller"
	"github.com/roach88/contactbook/internal/store"
)

// session is one command's view of the contact book: an open store, a
// controller bound to it and the output formatter.
type session struct {
	ctx    context.Context
	store  *store.Store
	ctrl   *controller.Controller
	out    *OutputFormatter
	logger *slog.Logger

	closeLog func() error
}

// newLogger builds the command logger from the environment config.
// --verbose forces debug level.
func (o *RootOptions) newLogger(cmd *cobra.Command) (*slog.Logger, func() error) {
	logOpts := LogOptions{
		Level:  o.Config.LogLevel,
		Format: o.Config.LogFormat,
		File:   o.Config.LogFile,
	}
	if o.Verbose {
		logOpts.Level = "debug"
	}
	return NewLogger(logOpts, cmd.ErrOrStderr())
}

// storeOptions returns the store.Open options selected by flags and env.
// An empty driver leaves the store default in place.
func (o *RootOptions) storeOptions() []store.Option {
	if o.Driver == "" {
		return nil
	}
	return []store.Option{store.WithDriver(o.Driver)}
}

// resolveDBPath returns the database path, creating the default data
// directory when no path was configured.
func (o *RootOptions) resolveDBPath() (string, error) {
	if o.DB != "" {
		return o.DB, nil
	}
	path, err := store.DefaultPath()
	if err != nil {
		return "", err
	}
	if err := store.EnsureDir(path); err != nil {
		return "", err
	}
	return path, nil
}

// openSession opens the store once and builds the controller for a command.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	logger, closeLog := opts.newLogger(cmd)

	path, err := opts.resolveDBPath()
	if err != nil {
		_ = closeLog()
		return nil, WrapExitError(ExitCommandError, "failed to resolve database path", err)
	}

	logger.Debug("opening database", "path", path, "driver", opts.Driver)
	st, err := store.Open(path, append(opts.storeOptions(), store.WithLogger(logger))...)
	if err != nil {
		_ = closeLog()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &session{
		ctx:      ctx,
		store:    st,
		ctrl:     controller.New(st, newNavigator(logger), controller.WithLogger(logger)),
		out:      opts.formatter(cmd),
		logger:   logger,
		closeLog: closeLog,
	}, nil
}

// Close releases the store and the log file.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
	_ = s.closeLog()
}

// refresh shows the list again after a command, as the list view would on
// reappearing.
func (s *session) refresh() error {
	if err := s.ctrl.Refresh(s.ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to load contacts", err)
	}
	s.out.VerboseLog("%d contact(s) in book", len(s.ctrl.Contacts()))
	return nil
}

// find returns the stored contact with id.
func (s *session) find(id int64) (contactRow, error) {
	c, err := s.store.Get(s.ctx, id)
	if err != nil {
		return contactRow{}, WrapExitError(ExitFailure, "failed to load contact", err)
	}
	return contactRow(c), nil
}
