package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/contactbook/internal/contact"
)

// Trace event kinds.
const (
	KindStep  = "step"
	KindStore = "store"
	KindNav   = "nav"
	KindError = "error"
)

// TraceEvent is one line of a scenario trace.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// String renders the event as "<seq> <kind> <detail>".
func (e TraceEvent) String() string {
	return fmt.Sprintf("%d %s %s", e.Seq, e.Kind, e.Detail)
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains step, store and navigation events in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Contacts is the table content after the last step.
	Contacts []contact.Contact `json:"contacts"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Contacts: []contact.Contact{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event with the next sequence number.
func (r *Result) AddTrace(kind, format string, args ...any) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    int64(len(r.Trace) + 1),
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Render returns the trace followed by the final table, one item per line.
// The output is deterministic and is what golden files contain.
func (r *Result) Render() []byte {
	var b strings.Builder
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	b.WriteString("final:\n")
	for _, c := range r.Contacts {
		fmt.Fprintf(&b, "  %s\n", formatContact(c))
	}
	return []byte(b.String())
}

func formatContact(c contact.Contact) string {
	return fmt.Sprintf("{id:%d name:%q phone:%q}", c.ID, c.Name, c.PhoneNumber)
}
