package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/controller"
	"github.com/roach88/contactbook/internal/testutil"
)

// recordingStore wraps the real store, traces every call and can be told
// to fail the next one.
type recordingStore struct {
	next     controller.Store
	result   *Result
	failNext string
	lastRows int64
}

func (s *recordingStore) injected(call string) error {
	if s.failNext == "" {
		return nil
	}
	err := errors.New("injected: " + s.failNext)
	s.failNext = ""
	s.result.AddTrace(KindStore, "%s -> error: %v", call, err)
	return err
}

func (s *recordingStore) ListAll(ctx context.Context) ([]contact.Contact, error) {
	if err := s.injected("list"); err != nil {
		return nil, err
	}
	all, err := s.next.ListAll(ctx)
	if err != nil {
		s.result.AddTrace(KindStore, "list -> error: %v", err)
		return nil, err
	}
	s.result.AddTrace(KindStore, "list -> %d", len(all))
	return all, nil
}

func (s *recordingStore) Add(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	call := "add " + formatContact(c)
	if err := s.injected(call); err != nil {
		return contact.Contact{}, err
	}
	saved, err := s.next.Add(ctx, c)
	if err != nil {
		s.result.AddTrace(KindStore, "%s -> error: %v", call, err)
		return contact.Contact{}, err
	}
	s.result.AddTrace(KindStore, "%s -> id=%d", call, saved.ID)
	return saved, nil
}

func (s *recordingStore) Update(ctx context.Context, c contact.Contact) (int64, error) {
	return s.rows("update "+formatContact(c), func() (int64, error) { return s.next.Update(ctx, c) })
}

func (s *recordingStore) Delete(ctx context.Context, c contact.Contact) (int64, error) {
	return s.rows(fmt.Sprintf("delete id=%d", c.ID), func() (int64, error) { return s.next.Delete(ctx, c) })
}

func (s *recordingStore) rows(call string, run func() (int64, error)) (int64, error) {
	if err := s.injected(call); err != nil {
		return 0, err
	}
	n, err := run()
	if err != nil {
		s.result.AddTrace(KindStore, "%s -> error: %v", call, err)
		return 0, err
	}
	s.lastRows = n
	s.result.AddTrace(KindStore, "%s -> rows=%d", call, n)
	return n, nil
}

// recordingNavigator traces moves on top of testutil.RecordingNavigator.
type recordingNavigator struct {
	*testutil.RecordingNavigator
	result *Result
}

func (n *recordingNavigator) Push(ctx context.Context, v controller.View) error {
	if err := n.RecordingNavigator.Push(ctx, v); err != nil {
		return err
	}
	n.result.AddTrace(KindNav, "push %s", v)
	return nil
}

func (n *recordingNavigator) Pop(ctx context.Context) error {
	if err := n.RecordingNavigator.Pop(ctx); err != nil {
		return err
	}
	n.result.AddTrace(KindNav, "pop -> %s", n.Top())
	return nil
}
