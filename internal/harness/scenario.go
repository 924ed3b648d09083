package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/contactbook/internal/contact"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed in order against one controller.
	Steps []Step `yaml:"steps"`

	// ExpectList, if present, is compared with the table after the last step.
	// Use "expect_list: []" to assert an empty table.
	ExpectList *[]contact.Contact `yaml:"expect_list,omitempty"`
}

// Step is one user action.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// ID selects a contact for OpSelect. If the list mirror has no contact
	// with this Id, a contact carrying only the Id (plus Name/Phone) is used.
	ID int64 `yaml:"id,omitempty"`

	// Name and Phone set the current item's fields for OpSet, or describe
	// the selected contact for OpSelect when it is not in the mirror.
	Name  *string `yaml:"name,omitempty"`
	Phone *string `yaml:"phone,omitempty"`

	// Fail makes the next store call of this step fail with this message.
	Fail string `yaml:"fail,omitempty"`

	// Expect validates the outcome of this step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect validates a single step.
type Expect struct {
	// Error is a substring the step's error must contain.
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// View is the view shown after the step ("list" or "edit").
	View string `yaml:"view,omitempty"`

	// Rows is the rows-affected count reported by the store for
	// OpSaveEdit and OpDelete.
	Rows *int64 `yaml:"rows,omitempty"`

	// Count is the size of the list mirror after OpRefresh.
	Count *int `yaml:"count,omitempty"`

	// ID is the Id of the current item after the step.
	ID *int64 `yaml:"id,omitempty"`
}

// Step operations.
const (
	OpCreateNew = "create_new"
	OpSet       = "set"
	OpSelect    = "select"
	OpSaveNew   = "save_new"
	OpSaveEdit  = "save_edit"
	OpDelete    = "delete"
	OpRefresh   = "refresh"
)

var validOps = map[string]bool{
	OpCreateNew: true,
	OpSet:       true,
	OpSelect:    true,
	OpSaveNew:   true,
	OpSaveEdit:  true,
	OpDelete:    true,
	OpRefresh:   true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, ordered by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	// The name is used as a golden file name.
	if strings.ContainsAny(s.Name, `/\`) || s.Name == "." || s.Name == ".." {
		return fmt.Errorf("name %q must not contain path separators", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Op == OpSelect && step.ID <= 0 {
			return fmt.Errorf("steps[%d]: select requires a positive id", i)
		}
		if step.Op == OpSet && step.Name == nil && step.Phone == nil {
			return fmt.Errorf("steps[%d]: set requires name or phone", i)
		}
		if step.Expect != nil && step.Expect.View != "" &&
			step.Expect.View != "list" && step.Expect.View != "edit" {
			return fmt.Errorf("steps[%d].expect: unknown view %q", i, step.Expect.View)
		}
	}

	return nil
}
