package tester

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/tlgen/generator"
	"github.com/nihei9/tlgen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestListTestCases(t *testing.T) {
	cs := ListTestCases("../testdata/cases")
	require.NotEmpty(t, cs)
	for _, c := range cs {
		assert.NoError(t, c.Error, c.FilePath)
		assert.Equal(t, ManifestExt, filepath.Ext(c.FilePath))
	}

	cs = ListTestCases("../testdata/cases/small_json.toml")
	require.Len(t, cs, 1)
	require.NoError(t, cs[0].Error)
	assert.Equal(t, "small.tl", cs[0].TestCase.Schema)
	assert.Equal(t, generator.ModeJSON, cs[0].TestCase.Mode)
	require.NotNil(t, cs[0].TestCase.SkipNLines)
	assert.Equal(t, 0, *cs[0].TestCase.SkipNLines)

	cs = ListTestCases("../testdata/cases/missing.toml")
	require.Len(t, cs, 1)
	assert.True(t, errors.Is(cs[0].Error, os.ErrNotExist))
}

func TestTester_Run(t *testing.T) {
	const schemaSrc = "foo x:int32 = Bar;\n"

	tests := []struct {
		caption string
		files   map[string]string
		pass    bool
		diff    bool
	}{
		{
			caption: "a manifest without a mode is an error",
			files: map[string]string{
				"case.toml": "schema = \"a.tl\"\nexpected = \"a.json\"\n",
			},
		},
		{
			caption: "a negative skip count is an error",
			files: map[string]string{
				"case.toml": "schema = \"a.tl\"\nexpected = \"a.json\"\nmode = \"json\"\nskip_n_lines = -1\n",
			},
		},
		{
			caption: "an unsupported mode is an error",
			files: map[string]string{
				"case.toml": "schema = \"a.tl\"\nexpected = \"a.out\"\nmode = \"protobuf\"\nskip_n_lines = 0\n",
				"a.tl":      schemaSrc,
				"a.out":     "",
			},
		},
		{
			caption: "a grammar error is reported",
			files: map[string]string{
				"case.toml": "schema = \"a.tl\"\nexpected = \"a.json\"\nmode = \"json\"\nskip_n_lines = 0\n",
				"a.tl":      "foo x: = Bar;\n",
				"a.json":    "",
			},
		},
		{
			caption: "a mismatch produces a diff",
			files: map[string]string{
				"case.toml": "schema = \"a.tl\"\nexpected = \"a.json\"\nmode = \"json\"\nskip_n_lines = 0\n",
				"a.tl":      schemaSrc,
				"a.json":    "{\n    \"__version__\": 0\n}\n",
			},
			diff: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			tester := &Tester{
				Cases: ListTestCases(dir),
			}
			rs, err := tester.Run()
			require.NoError(t, err)
			require.Len(t, rs, 1)
			r := rs[0]
			if tt.pass {
				assert.NoError(t, r.Error)
				assert.True(t, strings.HasPrefix(r.String(), "Passed "))
				return
			}
			assert.Error(t, r.Error)
			assert.True(t, strings.HasPrefix(r.String(), "Failed "))
			if tt.diff {
				assert.Contains(t, r.Diff, "-    \"__version__\": 0\n")
				assert.Contains(t, r.Diff, "+    \"__version__\": 1,\n")
				assert.Contains(t, r.String(), "\n    --- a.json\n")
			} else {
				assert.Empty(t, r.Diff)
			}
		})
	}
}

func TestTester_Run_Golden(t *testing.T) {
	tester := &Tester{
		Cases: ListTestCases("../testdata/cases"),
	}
	rs, err := tester.Run()
	require.NoError(t, err)
	require.NotEmpty(t, rs)
	for _, r := range rs {
		assert.NoError(t, r.Error, r.String())
	}
}

func TestTester_Run_RoundTrip(t *testing.T) {
	const schemaSrc = "//@description A foo\nfoo x:vector<int32> = Bar;\n---functions---\ngetFoo = Foo;\n"

	for _, mode := range generator.Modes() {
		t.Run(mode, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{
				"case.toml": "schema = \"a.tl\"\nexpected = \"a.out\"\nmode = \"" + mode + "\"\nskip_n_lines = 0\n",
				"a.tl":      schemaSrc,
				"a.out":     "",
			})
			tester := &Tester{
				Cases: ListTestCases(dir),
			}
			rs, err := tester.Run()
			require.NoError(t, err)
			require.Len(t, rs, 1)
			require.Error(t, rs[0].Error)
			require.NotEmpty(t, rs[0].Diff)

			// Accepting the actual output makes the case pass.
			g, err := generator.New(mode)
			require.NoError(t, err)
			def, err := schema.LoadFile(filepath.Join(dir, "a.tl"), schema.SkipLines(0))
			require.NoError(t, err)
			out, err := g.Generate(def)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "a.out"), out, 0644))

			rs, err = tester.Run()
			require.NoError(t, err)
			require.Len(t, rs, 1)
			assert.NoError(t, rs[0].Error)
		})
	}
}

func TestTester_Run_Filter(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"json_case.toml":  "schema = \"a.tl\"\nexpected = \"a.out\"\nmode = \"json\"\n",
		"attrs_case.toml": "schema = \"a.tl\"\nexpected = \"a.out\"\nmode = \"attrs\"\n",
		"README.md":       "not a test case",
	})
	cases := ListTestCases(dir)
	require.Len(t, cases, 2)

	rs, err := (&Tester{Cases: cases, Filter: "json_*"}).Run()
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, filepath.Join(dir, "json_case.toml"), rs[0].TestCasePath)

	rs, err = (&Tester{Cases: cases}).Run()
	require.NoError(t, err)
	assert.Len(t, rs, 2)

	_, err = (&Tester{Cases: cases, Filter: "[json"}).Run()
	assert.Error(t, err)
}
