package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/controller"
	"github.com/roach88/contactbook/internal/store"
	"github.com/roach88/contactbook/internal/testutil"
)

// Harness is the test execution engine.
// It runs one scenario with deterministic tokens against a fresh store.
type Harness struct {
	store  *store.Store
	rec    *recordingStore
	nav    *recordingNavigator
	ctrl   *controller.Controller
	result *Result
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// opts are passed to store.Open (e.g. store.WithDriver).
//
// An error is returned only when the harness itself cannot run; failed
// expectations are reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario, opts ...store.Option) (*Result, error) {
	st, err := store.Open(":memory:", opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	result := NewResult()
	h := &Harness{
		store:  st,
		rec:    &recordingStore{next: st, result: result},
		nav:    &recordingNavigator{RecordingNavigator: testutil.NewRecordingNavigator(), result: result},
		result: result,
	}
	h.ctrl = controller.New(h.rec, h.nav,
		controller.WithTokenGenerator(testutil.NewSequentialTokens("op")),
		controller.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)

	ctx := context.Background()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step)
	}

	final, err := st.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final table: %w", err)
	}
	result.Contacts = final

	if scenario.ExpectList != nil {
		checkList(result, *scenario.ExpectList, final)
	}

	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, i int, step Step) {
	h.result.AddTrace(KindStep, "%s", describeStep(step))
	h.rec.failNext = step.Fail
	h.rec.lastRows = -1

	err := h.dispatch(ctx, step)
	if err != nil {
		h.result.AddTrace(KindError, "%v", err)
	}
	// An injected failure the step never reached must not leak into the next step
	h.rec.failNext = ""

	if step.Expect != nil {
		h.checkStep(i, step, err)
	} else if err != nil {
		h.result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, step.Op, err))
	}
}

func (h *Harness) dispatch(ctx context.Context, step Step) error {
	switch step.Op {
	case OpCreateNew:
		return h.ctrl.CreateNew(ctx)
	case OpSet:
		item := h.ctrl.CurrentItem()
		if step.Name != nil {
			item.Name = *step.Name
		}
		if step.Phone != nil {
			item.PhoneNumber = *step.Phone
		}
		h.ctrl.SetCurrentItem(item)
		return nil
	case OpSelect:
		return h.ctrl.SelectForEdit(ctx, h.lookup(step))
	case OpSaveNew:
		return h.ctrl.SaveNew(ctx)
	case OpSaveEdit:
		return h.ctrl.SaveEdit(ctx)
	case OpDelete:
		return h.ctrl.DeleteCurrent(ctx)
	case OpRefresh:
		return h.ctrl.Refresh(ctx)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// lookup finds the contact to select: the mirror entry with step.ID if the
// list has been refreshed, otherwise a contact built from the step itself.
func (h *Harness) lookup(step Step) contact.Contact {
	for _, c := range h.ctrl.Contacts() {
		if c.ID == step.ID {
			return c
		}
	}
	c := contact.Contact{ID: step.ID}
	if step.Name != nil {
		c.Name = *step.Name
	}
	if step.Phone != nil {
		c.PhoneNumber = *step.Phone
	}
	return c
}

func (h *Harness) checkStep(i int, step Step, err error) {
	exp := step.Expect
	prefix := fmt.Sprintf("steps[%d] %s", i, step.Op)

	switch {
	case exp.Error == "" && err != nil:
		h.result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, err))
	case exp.Error != "" && err == nil:
		h.result.AddError(fmt.Sprintf("%s: expected error containing %q, got success", prefix, exp.Error))
	case exp.Error != "" && !strings.Contains(err.Error(), exp.Error):
		h.result.AddError(fmt.Sprintf("%s: expected error containing %q, got %v", prefix, exp.Error, err))
	}

	if exp.View != "" {
		if got := h.nav.Top().String(); got != exp.View {
			h.result.AddError(fmt.Sprintf("%s: expected view %s, got %s", prefix, exp.View, got))
		}
	}

	if exp.Rows != nil && h.rec.lastRows != *exp.Rows {
		h.result.AddError(fmt.Sprintf("%s: expected rows=%d, got %d", prefix, *exp.Rows, h.rec.lastRows))
	}

	if exp.Count != nil {
		if got := len(h.ctrl.Contacts()); got != *exp.Count {
			h.result.AddError(fmt.Sprintf("%s: expected %d contacts, got %d", prefix, *exp.Count, got))
		}
	}

	if exp.ID != nil {
		if got := h.ctrl.CurrentItem().ID; got != *exp.ID {
			h.result.AddError(fmt.Sprintf("%s: expected current id=%d, got %d", prefix, *exp.ID, got))
		}
	}
}

func checkList(result *Result, want, got []contact.Contact) {
	if len(want) != len(got) {
		result.AddError(fmt.Sprintf("expect_list: expected %d contacts, got %d", len(want), len(got)))
		return
	}
	for i := range want {
		if want[i] != got[i] {
			result.AddError(fmt.Sprintf("expect_list[%d]: expected %s, got %s", i, formatContact(want[i]), formatContact(got[i])))
		}
	}
}

func describeStep(step Step) string {
	var b strings.Builder
	b.WriteString(step.Op)
	if step.ID != 0 {
		fmt.Fprintf(&b, " id=%d", step.ID)
	}
	if step.Name != nil {
		fmt.Fprintf(&b, " name=%q", *step.Name)
	}
	if step.Phone != nil {
		fmt.Fprintf(&b, " phone=%q", *step.Phone)
	}
	if step.Fail != "" {
		fmt.Fprintf(&b, " fail=%q", step.Fail)
	}
	return b.String()
}
