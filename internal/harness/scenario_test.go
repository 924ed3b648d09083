package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: ok
description: minimal
steps:
  - op: create_new
  - op: set
    name: Ann
  - op: save_new
    expect:
      view: list
      id: 1
expect_list:
  - {id: 1, name: Ann, phone: ""}
`))
	require.NoError(t, err)

	assert.Equal(t, "ok", s.Name)
	require.Len(t, s.Steps, 3)
	require.NotNil(t, s.Steps[1].Name)
	assert.Equal(t, "Ann", *s.Steps[1].Name)
	assert.Nil(t, s.Steps[1].Phone)
	require.NotNil(t, s.Steps[2].Expect)
	assert.Equal(t, int64(1), *s.Steps[2].Expect.ID)
	require.NotNil(t, s.ExpectList)
	assert.Len(t, *s.ExpectList, 1)
}

func TestParseScenario_EmptyExpectList(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: empty
description: empty table expected
steps:
  - op: refresh
expect_list: []
`))
	require.NoError(t, err)
	require.NotNil(t, s.ExpectList)
	assert.Empty(t, *s.ExpectList)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\ndescription: y\nsteps: [{op: refresh}]\nstepz: []\n", "failed to parse YAML"},
		{"missing name", "description: y\nsteps: [{op: refresh}]\n", "name is required"},
		{"name with slash", "name: ../../x\ndescription: y\nsteps: [{op: refresh}]\n", "path separators"},
		{"name with backslash", "name: 'a\\b'\ndescription: y\nsteps: [{op: refresh}]\n", "path separators"},
		{"name dot-dot", "name: '..'\ndescription: y\nsteps: [{op: refresh}]\n", "path separators"},
		{"missing description", "name: x\nsteps: [{op: refresh}]\n", "description is required"},
		{"no steps", "name: x\ndescription: y\n", "steps list is required"},
		{"unknown op", "name: x\ndescription: y\nsteps: [{op: teleport}]\n", "unknown op"},
		{"select without id", "name: x\ndescription: y\nsteps: [{op: select}]\n", "positive id"},
		{"set without fields", "name: x\ndescription: y\nsteps: [{op: set}]\n", "name or phone"},
		{"bad view", "name: x\ndescription: y\nsteps: [{op: refresh, expect: {view: settings}}]\n", "unknown view"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadDir_OrderedByFileName(t *testing.T) {
	dir := t.TempDir()
	write := func(file, name string) {
		body := "name: " + name + "\ndescription: d\nsteps: [{op: refresh}]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o600))
	}
	write("b.yaml", "second")
	write("a.yml", "first")
	write("c.yaml", "third")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
	assert.Equal(t, "third", scenarios[2].Name)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}

func TestLoadDir_BadFileNamed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x\n"), 0o600))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
