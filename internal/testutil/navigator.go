package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/contactbook/internal/controller"
)

// ErrEmptyStack is returned by RecordingNavigator.Pop when only the root
// view is left.
var ErrEmptyStack = errors.New("navigator: nothing to pop")

// RecordingNavigator is an in-memory view stack that records every move.
// It starts with controller.ViewList as the root view.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type RecordingNavigator struct {
	mu    sync.Mutex
	stack []controller.View
	moves []string

	// FailNext, when set, is returned by the next Push or Pop instead of
	// moving. It is cleared after use.
	FailNext error
}

// NewRecordingNavigator creates a navigator showing the list view.
func NewRecordingNavigator() *RecordingNavigator {
	return &RecordingNavigator{stack: []controller.View{controller.ViewList}}
}

// Push implements controller.Navigator.
func (n *RecordingNavigator) Push(_ context.Context, v controller.View) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.takeFailure(); err != nil {
		return err
	}
	n.stack = append(n.stack, v)
	n.moves = append(n.moves, "push "+v.String())
	return nil
}

// Pop implements controller.Navigator.
func (n *RecordingNavigator) Pop(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.takeFailure(); err != nil {
		return err
	}
	if len(n.stack) <= 1 {
		return ErrEmptyStack
	}
	n.stack = n.stack[:len(n.stack)-1]
	n.moves = append(n.moves, "pop")
	return nil
}

// Top returns the view currently shown.
func (n *RecordingNavigator) Top() controller.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack[len(n.stack)-1]
}

// Moves returns every successful move in order ("push edit", "pop").
func (n *RecordingNavigator) Moves() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.moves))
	copy(out, n.moves)
	return out
}

func (n *RecordingNavigator) takeFailure() error {
	err := n.FailNext
	n.FailNext = nil
	return err
}
