// Package tester runs golden-file test cases against the generators.
package tester

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
	"github.com/nihei9/tlgen/generator"
	"github.com/nihei9/tlgen/parser"
	"github.com/nihei9/tlgen/schema"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
)

// ManifestExt is the extension of test case files. Other files in a test directory are ignored.
const ManifestExt = ".toml"

// TestCase is a manifest naming a schema, the generation mode, and the file the output must match.
// Paths are relative to the manifest.
type TestCase struct {
	Schema     string `toml:"schema"`
	Expected   string `toml:"expected"`
	Mode       string `toml:"mode"`
	SkipNLines *int   `toml:"skip_n_lines"`
}

func (c *TestCase) validate() error {
	switch {
	case c.Schema == "":
		return errors.New("a test case needs a schema")
	case c.Expected == "":
		return errors.New("a test case needs an expected file")
	case c.Mode == "":
		return errors.New("a test case needs a mode")
	case c.SkipNLines != nil && *c.SkipNLines < 0:
		return fmt.Errorf("skip_n_lines must be non-negative: %v", *c.SkipNLines)
	}
	return nil
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diff         string
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if r.Diff == "" {
			return msg
		}
		diffLines := strings.Split(strings.TrimSuffix(r.Diff, "\n"), "\n")
		return fmt.Sprintf("%v\n%v%v", msg, indent1, strings.Join(diffLines, "\n"+indent1))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the manifest at testPath, or every manifest under testPath when it is a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() && filepath.Ext(e.Name()) != ManifestExt {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	c := &TestCase{}
	_, err := toml.DecodeFile(testCasePath, c)
	if err != nil {
		return nil, err
	}
	err = c.validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

type Tester struct {
	Cases []*TestCaseWithMetadata

	// Filter is a glob pattern matched against the base name of each manifest. An empty
	// filter selects every case.
	Filter string

	Logger logrus.FieldLogger
}

// Run runs the selected cases in order. It fails only when the filter is malformed.
func (t *Tester) Run() ([]*TestResult, error) {
	var g glob.Glob
	if t.Filter != "" {
		var err error
		g, err = glob.Compile(t.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", t.Filter, err)
		}
	}

	var rs []*TestResult
	for _, c := range t.Cases {
		if g != nil && !g.Match(filepath.Base(c.FilePath)) {
			if t.Logger != nil {
				t.Logger.WithField("test_case", c.FilePath).Debug("skipped by the filter")
			}
			continue
		}
		rs = append(rs, runTest(c))
	}
	return rs, nil
}

func runTest(c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	dir := filepath.Dir(c.FilePath)
	actual, err := generate(c.TestCase, dir)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	expected, err := os.ReadFile(filepath.Join(dir, c.TestCase.Expected))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	if !bytes.Equal(expected, actual) {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expected)),
			B:        difflib.SplitLines(string(actual)),
			FromFile: c.TestCase.Expected,
			ToFile:   "actual",
			Context:  3,
		})
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diff:         diff,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func generate(c *TestCase, dir string) ([]byte, error) {
	g, err := generator.New(c.Mode)
	if err != nil {
		return nil, err
	}

	skip := parser.DefaultSkipLines
	if c.SkipNLines != nil {
		skip = *c.SkipNLines
	}
	def, err := schema.LoadFile(filepath.Join(dir, c.Schema), schema.SkipLines(skip))
	if err != nil {
		return nil, err
	}
	return g.Generate(def)
}
