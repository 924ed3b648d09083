package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/contactbook/internal/controller"
)

// errNoPreviousView is returned when Pop is called on the list view.
var errNoPreviousView = errors.New("no previous view")

// navigator is the CLI's stand-in for a page stack. A command line has no
// screens, so moves are only tracked and logged.
type navigator struct {
	logger *slog.Logger
	stack  []controller.View
}

func newNavigator(logger *slog.Logger) *navigator {
	return &navigator{logger: logger, stack: []controller.View{controller.ViewList}}
}

func (n *navigator) Push(ctx context.Context, v controller.View) error {
	n.stack = append(n.stack, v)
	n.logger.DebugContext(ctx, "navigate", "action", "push", "view", v.String())
	return nil
}

func (n *navigator) Pop(ctx context.Context) error {
	if len(n.stack) <= 1 {
		return errNoPreviousView
	}
	n.stack = n.stack[:len(n.stack)-1]
	n.logger.DebugContext(ctx, "navigate", "action", "pop", "view", n.top().String())
	return nil
}

func (n *navigator) top() controller.View {
	return n.stack[len(n.stack)-1]
}
