package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/seed"
	"github.com/roach88/contactbook/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(contactRow{ID: 3, Name: "Ann", PhoneNumber: "123"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"ok","data":{"id":3,"name":"Ann","phone":"123"}}`, buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("STORAGE_WRITE", "failed to add contact", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STORAGE_WRITE", resp.Error.Code)
	assert.Equal(t, "failed to add contact", resp.Error.Message)
	assert.Nil(t, resp.Data)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("NOT_FOUND", "failed to load contact", map[string]int{"id": 4}))
	assert.Equal(t, "Error [NOT_FOUND]: failed to load contact\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("NOT_FOUND", "failed to load contact", map[string]int{"id": 4}))
	assert.Contains(t, buf.String(), "Details: map[id:4]")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	loud := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	loud.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String(), "verbose logs must not corrupt JSON output")

	fallback := &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	fallback.VerboseLog("to writer")
	assert.Equal(t, "to writer\n", out.String())
}

func TestContactTable_String(t *testing.T) {
	assert.Equal(t, "No contacts.", contactTable{}.String())

	table := contactTable{
		{ID: 1, Name: "Ann", PhoneNumber: "123"},
		{ID: 12, Name: "Bartholomew", PhoneNumber: ""},
	}
	assert.Equal(t,
		"ID  NAME         PHONE\n"+
			"1   Ann          123\n"+
			"12  Bartholomew  ",
		table.String())
}

func TestContactTable_JSONIsArray(t *testing.T) {
	data, err := json.Marshal(contactTable{{ID: 1, Name: "Ann"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Ann","phone":""}]`, string(data))
}

func TestContactRow_RoundTripsContact(t *testing.T) {
	c := contact.Contact{ID: 2, Name: "Bob", PhoneNumber: "9"}
	assert.Equal(t, c, contactRow(c).contact())
	assert.Equal(t, "2\tBob\t9", contactRow(c).String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", errors.New("cause")))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "outer: inner: cause", wrapped.Error())
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"store error", WrapExitError(ExitFailure, "x", &store.StoreError{Code: store.CodeWrite, Op: "add", Err: errors.New("disk full")}), "STORAGE_WRITE"},
		{"not found", WrapExitError(ExitFailure, "x", fmt.Errorf("get: %w", store.ErrNotFound)), ErrCodeNotFound},
		{"seed error", WrapExitError(ExitCommandError, "x", &seed.LoadError{Code: seed.ErrCodeInvalid, Message: "bad"}), seed.ErrCodeInvalid},
		{"other", errors.New("boom"), ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}
