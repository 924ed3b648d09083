// Package seed loads initial contacts from a directory of CUE files.
//
// A seed package declares a top-level "contacts" list:
//
//	package seed
//
//	contacts: [
//		{name: "Ann", phone: "123"},
//		{name: "Bob"},
//	]
//
// Each element is unified with the closed #Contact schema before decoding,
// so misspelled fields and non-string values are rejected with their CUE
// source position.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/contactbook/internal/contact"
)

// schemaCUE is unified with every seed entry.
const schemaCUE = `
#Contact: {
	name:  string
	phone: string | *""
}
`

// Error code constants.
const (
	ErrCodeNotFound    = "NOT_FOUND"    // Path not found or not a directory
	ErrCodeNoFiles     = "NO_FILES"     // No CUE files found
	ErrCodeLoadFailed  = "LOAD_FAILED"  // CUE load failed
	ErrCodeBuildFailed = "BUILD_FAILED" // CUE build failed
	ErrCodeInvalid     = "INVALID"      // Entry does not match #Contact
)

// LoadError represents an error that occurred while loading seed files.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// entry mirrors #Contact for decoding.
type entry struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Load reads the CUE package in dir and returns its contacts in declaration
// order. The returned contacts are unsaved (zero Id). A package without a
// "contacts" field yields an empty slice.
func Load(dir string) ([]contact.Contact, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing seed directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil || len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building schema: %v", err)}
	}

	return decodeContacts(value.LookupPath(cue.ParsePath("contacts")), schema.LookupPath(cue.ParsePath("#Contact")))
}

func decodeContacts(list, def cue.Value) ([]contact.Contact, error) {
	contacts := []contact.Contact{}
	if !list.Exists() {
		return contacts, nil
	}

	iter, err := list.List()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("contacts must be a list: %v", err), Pos: list.Pos()}
	}

	for i := 0; iter.Next(); i++ {
		v := def.Unify(iter.Value())
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("contacts[%d]: %v", i, err), Pos: iter.Value().Pos()}
		}

		var e entry
		if err := v.Decode(&e); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("contacts[%d]: %v", i, err), Pos: iter.Value().Pos()}
		}
		contacts = append(contacts, contact.Normalize(contact.New(e.Name, e.Phone)))
	}

	return contacts, nil
}

// Adder inserts one contact. *store.Store satisfies it.
type Adder interface {
	Add(ctx context.Context, c contact.Contact) (contact.Contact, error)
}

// Apply inserts contacts in order and returns them with their assigned Ids.
// It stops at the first failure and returns what was inserted so far.
func Apply(ctx context.Context, st Adder, contacts []contact.Contact) ([]contact.Contact, error) {
	added := make([]contact.Contact, 0, len(contacts))
	for i, c := range contacts {
		saved, err := st.Add(ctx, c)
		if err != nil {
			return added, fmt.Errorf("seed contact %d (%q): %w", i, c.Name, err)
		}
		added = append(added, saved)
	}
	return added, nil
}
