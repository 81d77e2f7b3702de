package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	verr "github.com/nihei9/tlgen/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `//@description A value
jsonValueNull = JsonValue;
jsonValueString value:string = JsonValue;
---functions---
getJsonValue json:string = JsonValue;
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSchema(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "api.tl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestGenerateCommand(t *testing.T) {
	for _, mode := range []string{"json", "yaml", "attrs"} {
		t.Run(mode, func(t *testing.T) {
			dir := t.TempDir()
			tlFile := writeSchema(t, dir, testSchema)
			outFile := filepath.Join(dir, "out")

			_, stderr, err := execute(t, mode, "--tl-file", tlFile, "--output-file", outFile, "--skip-n-lines", "0")
			require.NoError(t, err)
			assert.Contains(t, stderr, "parsing file")
			assert.Contains(t, stderr, "skipping `0` lines from the start of the file")
			assert.Contains(t, stderr, "file successfully written")

			out, err := os.ReadFile(outFile)
			require.NoError(t, err)
			assert.Contains(t, string(out), "jsonValueString")
			assert.Contains(t, string(out), "getJsonValue")
		})
	}
}

func TestGenerateCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	tlFile := writeSchema(t, dir, "foo = Bar;\n")
	outFile := filepath.Join(dir, "out.json")

	_, _, err := execute(t, "json", "--tl-file", tlFile, "--output-file", outFile, "--skip-n-lines", "0", "--log-format", "json")
	require.NoError(t, err)

	b, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var doc struct {
		Version        int `json:"__version__"`
		FileDefinition struct {
			Types     []map[string]any `json:"types"`
			Functions []map[string]any `json:"functions"`
		} `json:"tl_file_definition"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, 1, doc.Version)
	assert.Len(t, doc.FileDefinition.Types, 3)
	assert.Empty(t, doc.FileDefinition.Functions)
}

func TestGenerateCommand_Verbose(t *testing.T) {
	dir := t.TempDir()
	tlFile := writeSchema(t, dir, testSchema)

	_, stderr, err := execute(t, "json", "--tl-file", tlFile, "--output-file", filepath.Join(dir, "out.json"), "--skip-n-lines", "0", "-v", "--trace-parser")
	require.NoError(t, err)
	assert.Contains(t, stderr, "synthesized an abstract type")
	assert.Contains(t, stderr, "matched ")
}

func TestGenerateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	tlFile := writeSchema(t, dir, testSchema)
	outFile := filepath.Join(dir, "out.json")

	tests := []struct {
		caption string
		args    []string
	}{
		{
			caption: "the schema file is required",
			args:    []string{"json", "--output-file", outFile},
		},
		{
			caption: "the schema file must exist",
			args:    []string{"json", "--tl-file", filepath.Join(dir, "missing.tl"), "--output-file", outFile},
		},
		{
			caption: "the schema file must be a regular file",
			args:    []string{"json", "--tl-file", dir, "--output-file", outFile},
		},
		{
			caption: "the output file is required",
			args:    []string{"json", "--tl-file", tlFile},
		},
		{
			caption: "the parent of the output file must exist",
			args:    []string{"json", "--tl-file", tlFile, "--output-file", filepath.Join(dir, "missing", "out.json")},
		},
		{
			caption: "the skip count must be non-negative",
			args:    []string{"json", "--tl-file", tlFile, "--output-file", outFile, "--skip-n-lines", "-1"},
		},
		{
			caption: "the log format must be known",
			args:    []string{"json", "--tl-file", tlFile, "--output-file", outFile, "--log-format", "xml"},
		},
		{
			caption: "a missing config file is an error",
			args:    []string{"json", "--tl-file", tlFile, "--output-file", outFile, "--config", filepath.Join(dir, "missing.yaml")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
			_, err = os.Stat(outFile)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestGenerateCommand_GrammarError(t *testing.T) {
	dir := t.TempDir()
	tlFile := writeSchema(t, dir, "foo = Bar;\nbar x: = Baz;\n")
	outFile := filepath.Join(dir, "out.json")

	_, _, err := execute(t, "json", "--tl-file", tlFile, "--output-file", outFile, "--skip-n-lines", "0")
	var specErr *verr.SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, 2, specErr.Row)
	assert.True(t, strings.HasPrefix(err.Error(), tlFile+": 2:"))

	_, err = os.Stat(outFile)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCommand_Config(t *testing.T) {
	dir := t.TempDir()
	tlFile := writeSchema(t, dir, "foo = Bar;\n")
	outFile := filepath.Join(dir, "out.json")
	cfgFile := filepath.Join(dir, "tlgen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("tl_file: "+tlFile+"\noutput_file: "+outFile+"\nskip_n_lines: 0\n"), 0644))

	_, _, err := execute(t, "json", "--config", cfgFile)
	require.NoError(t, err)
	_, err = os.Stat(outFile)
	assert.NoError(t, err)
}

func TestGenerateCommand_Env(t *testing.T) {
	dir := t.TempDir()
	tlFile := writeSchema(t, dir, "foo = Bar;\n")
	outFile := filepath.Join(dir, "out.json")
	t.Setenv("TLGEN_TL_FILE", tlFile)
	t.Setenv("TLGEN_SKIP_N_LINES", "0")

	_, _, err := execute(t, "json", "--output-file", outFile)
	require.NoError(t, err)
	_, err = os.Stat(outFile)
	assert.NoError(t, err)

	// A flag wins over the environment.
	_, _, err = execute(t, "json", "--output-file", outFile, "--skip-n-lines", "1")
	require.NoError(t, err)
	b, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "\"foo\"")
}

func TestTestCommand(t *testing.T) {
	stdout, _, err := execute(t, "test", "../../testdata/cases")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Passed ")
	assert.NotContains(t, stdout, "Failed ")

	stdout, _, err = execute(t, "test", "../../testdata/cases", "--run", "small_json*")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "Passed "))

	_, _, err = execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, writeFileAtomic(path, []byte("first")))
	require.NoError(t, writeFileAtomic(path, []byte("second")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	es, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, "out.txt", es[0].Name())

	err = writeFileAtomic(filepath.Join(dir, "missing", "out.txt"), []byte("x"))
	assert.Error(t, err)
}
