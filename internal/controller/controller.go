package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/observe"
)

// Property names reported through Observable.
const (
	PropContactsInfo = "ContactsInfo"
	PropCurrentItem  = "CurrentItem"
	PropLastError    = "LastError"
)

// Store is the persistence the controller needs. *store.Store satisfies it.
type Store interface {
	ListAll(ctx context.Context) ([]contact.Contact, error)
	Add(ctx context.Context, c contact.Contact) (contact.Contact, error)
	Update(ctx context.Context, c contact.Contact) (int64, error)
	Delete(ctx context.Context, c contact.Contact) (int64, error)
}

// Controller holds the list mirror and the current item and runs commands
// against the store.
//
// Thread-safety: state is guarded by a mutex so concurrent calls are
// memory-safe, but commands are meant to be serialized by the presentation
// layer (one modal edit at a time).
type Controller struct {
	store  Store
	nav    Navigator
	tokens TokenGenerator
	logger *slog.Logger

	observe.Observable

	mu       sync.Mutex
	contacts []contact.Contact
	current  contact.Contact
	lastErr  error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTokenGenerator overrides the operation token generator.
// Defaults to UUIDv7Generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(c *Controller) {
		if g != nil {
			c.tokens = g
		}
	}
}

// New creates a controller. The store must already be open; the caller owns
// its lifetime.
func New(st Store, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		store:    st,
		nav:      nav,
		tokens:   UUIDv7Generator{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		contacts: []contact.Contact{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Contacts returns a copy of the list mirror.
func (c *Controller) Contacts() []contact.Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]contact.Contact, len(c.contacts))
	copy(out, c.contacts)
	return out
}

// CurrentItem returns the contact being created or edited.
func (c *Controller) CurrentItem() contact.Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetCurrentItem replaces the edit buffer, typically as the user types.
// The Id of the buffer is kept; only Name and PhoneNumber are taken from item,
// normalized with contact.Normalize. What the buffer holds is what SaveNew
// and SaveEdit write.
func (c *Controller) SetCurrentItem(item contact.Contact) {
	item = contact.Normalize(item)
	c.mu.Lock()
	item.ID = c.current.ID
	c.current = item
	c.mu.Unlock()
	c.Notify(observe.Change{Property: PropCurrentItem})
}

// LastError returns the error of the most recent failed command, or nil
// if the most recent command succeeded.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// CreateNew resets the current item to an empty contact and opens the edit view.
func (c *Controller) CreateNew(ctx context.Context) error {
	token := c.tokens.Generate()
	c.setCurrent(contact.Contact{}, token)
	return c.navigate(ctx, "create new", token, func(ctx context.Context) error {
		return c.nav.Push(ctx, ViewEdit)
	})
}

// SelectForEdit makes item the current item and opens the edit view.
func (c *Controller) SelectForEdit(ctx context.Context, item contact.Contact) error {
	token := c.tokens.Generate()
	c.setCurrent(item, token)
	return c.navigate(ctx, "select for edit", token, func(ctx context.Context) error {
		return c.nav.Push(ctx, ViewEdit)
	})
}

// SaveNew inserts the current item and, on success, replaces it with the
// stored record (now carrying its Id) and returns to the previous view.
// The list mirror is not touched; see Refresh.
func (c *Controller) SaveNew(ctx context.Context) error {
	token := c.tokens.Generate()
	item := c.CurrentItem()

	saved, err := c.store.Add(ctx, item)
	if err != nil {
		return c.fail("save new", token, err)
	}
	c.logger.Info("contact saved", "token", token, "id", saved.ID)

	c.setCurrent(saved, token)
	return c.finish(ctx, "save new", token)
}

// SaveEdit writes the current item over its stored row and returns to the
// previous view. An Id that no longer exists affects zero rows and still
// counts as success.
func (c *Controller) SaveEdit(ctx context.Context) error {
	token := c.tokens.Generate()
	item := c.CurrentItem()

	n, err := c.store.Update(ctx, item)
	if err != nil {
		return c.fail("save edit", token, err)
	}
	c.logger.Info("contact updated", "token", token, "id", item.ID, "rows", n)

	return c.finish(ctx, "save edit", token)
}

// DeleteCurrent removes the current item's row and returns to the previous
// view. Deleting an already-deleted contact affects zero rows and succeeds.
func (c *Controller) DeleteCurrent(ctx context.Context) error {
	token := c.tokens.Generate()
	item := c.CurrentItem()

	n, err := c.store.Delete(ctx, item)
	if err != nil {
		return c.fail("delete", token, err)
	}
	c.logger.Info("contact deleted", "token", token, "id", item.ID, "rows", n)

	return c.finish(ctx, "delete", token)
}

// Refresh reloads the whole list from the store and notifies ContactsInfo.
// Call it whenever the list view becomes visible.
func (c *Controller) Refresh(ctx context.Context) error {
	token := c.tokens.Generate()

	all, err := c.store.ListAll(ctx)
	if err != nil {
		return c.fail("refresh", token, err)
	}

	c.mu.Lock()
	c.contacts = all
	c.mu.Unlock()
	c.logger.Debug("contacts refreshed", "token", token, "count", len(all))
	c.Notify(observe.Change{Property: PropContactsInfo, Token: token})

	c.clearError(token)
	return nil
}

// Async runs cmd on its own goroutine and delivers its result on the
// returned channel, which is buffered and receives exactly one value.
//
//	done := ctrl.Async(ctx, ctrl.SaveNew)
//	if err := <-done; err != nil { ... }
func (c *Controller) Async(ctx context.Context, cmd func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- cmd(ctx)
	}()
	return done
}

func (c *Controller) setCurrent(item contact.Contact, token string) {
	c.mu.Lock()
	c.current = item
	c.mu.Unlock()
	c.Notify(observe.Change{Property: PropCurrentItem, Token: token})
}

// finish pops back to the list after a successful store call.
func (c *Controller) finish(ctx context.Context, op, token string) error {
	return c.navigate(ctx, op, token, func(ctx context.Context) error {
		return c.nav.Pop(ctx)
	})
}

func (c *Controller) navigate(ctx context.Context, op, token string, move func(context.Context) error) error {
	if err := move(ctx); err != nil {
		return c.fail(op, token, fmt.Errorf("navigate: %w", err))
	}
	c.clearError(token)
	return nil
}

// fail records err as LastError, notifies, and returns it wrapped with op.
// No navigation happens: the user stays where the command was issued.
func (c *Controller) fail(op, token string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)

	c.mu.Lock()
	c.lastErr = wrapped
	c.mu.Unlock()

	c.logger.Error("command failed", "op", op, "token", token, "error", err)
	c.Notify(observe.Change{Property: PropLastError, Token: token})
	return wrapped
}

func (c *Controller) clearError(token string) {
	c.mu.Lock()
	had := c.lastErr != nil
	c.lastErr = nil
	c.mu.Unlock()

	if had {
		c.Notify(observe.Change{Property: PropLastError, Token: token})
	}
}
