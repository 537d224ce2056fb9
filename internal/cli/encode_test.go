package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProgram = `
program: {
	name: "account"
	fields: [{name: "balance", type: "Int"}]
	predicates: [
		{
			kind: "struct"
			name: "Account"
			this: {name: "self", type: "Ref(Account)"}
			body: {
				kind: "field_perm"
				base: {
					kind:  "field"
					base:  {kind: "local", var: {name: "self", type: "Ref(Account)"}}
					field: {name: "balance", type: "Int"}
				}
				perm: "write"
			}
		},
	]
	methods: [
		{
			name: "deposit"
			args: [{name: "self", type: "Ref(Account)"}]
			body: [
				{kind: "inhale", expr: {kind: "bool", value: true}},
			]
		},
	]
}
`

// Exhale without a position fails statement validation.
const invalidProgram = `
program: {
	name: "broken"
	methods: [
		{
			name: "m"
			body: [
				{kind: "exhale", expr: {kind: "bool", value: true}},
			]
		},
	]
}
`

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestEncodeToStdout(t *testing.T) {
	path := writeProgram(t, validProgram)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEncodeCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "field balance: Int")
	assert.Contains(t, output, "predicate Account(self: Ref)")
	assert.Contains(t, output, "method deposit(self: Ref)")
	assert.Contains(t, output, "function read$(): Perm")
}

func TestEncodePreambleOnly(t *testing.T) {
	path := writeProgram(t, validProgram)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEncodeCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--preamble-only"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "predicate Account(self: Ref)")
	assert.NotContains(t, output, "method deposit")
}

func TestEncodeToFile(t *testing.T) {
	path := writeProgram(t, validProgram)
	outPath := filepath.Join(t.TempDir(), "out.vpr")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewEncodeCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "-o", outPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "predicate Account")
}

func TestEncodeUsesCache(t *testing.T) {
	path := writeProgram(t, validProgram)
	cachePath := filepath.Join(t.TempDir(), "encodings.db")

	run := func() (string, CLIResponse) {
		buf := &bytes.Buffer{}
		rootOpts := &RootOptions{Format: "json"}
		cmd := NewEncodeCommand(rootOpts)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{path, "--cache", cachePath})
		require.NoError(t, cmd.Execute())

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		return buf.String(), resp
	}

	_, first := run()
	require.Equal(t, "ok", first.Status)
	firstData, err := json.Marshal(first.Data)
	require.NoError(t, err)
	var firstResult EncodeResult
	require.NoError(t, json.Unmarshal(firstData, &firstResult))
	assert.False(t, firstResult.Cached)
	assert.Len(t, firstResult.Fingerprint, 64)

	_, second := run()
	secondData, err := json.Marshal(second.Data)
	require.NoError(t, err)
	var secondResult EncodeResult
	require.NoError(t, json.Unmarshal(secondData, &secondResult))
	assert.True(t, secondResult.Cached)
	assert.Equal(t, firstResult.Fingerprint, secondResult.Fingerprint)
}

func TestEncodeRejectsInvalidProgram(t *testing.T) {
	path := writeProgram(t, invalidProgram)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEncodeCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "error:")
}

func TestEncodeMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEncodeCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.cue")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid program", func(t *testing.T) {
		path := writeProgram(t, validProgram)

		buf := &bytes.Buffer{}
		rootOpts := &RootOptions{Format: "json"}
		cmd := NewValidateCommand(rootOpts)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{path})

		require.NoError(t, cmd.Execute())

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("invalid program", func(t *testing.T) {
		path := writeProgram(t, invalidProgram)

		buf := &bytes.Buffer{}
		rootOpts := &RootOptions{Format: "text"}
		cmd := NewValidateCommand(rootOpts)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{path})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, buf.String(), "invalid")
	})
}
