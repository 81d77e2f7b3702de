package main

import (
	"errors"
	"fmt"

	"github.com/nihei9/tlgen/tester"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "test <test file path>|<test directory path>",
		Short:   "Test the generators against golden files",
		Example: `  tlgen test testdata/cases --run 'small_*'`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	cmd.Flags().String(flagRun, "", "run only the test cases whose file name matches this glob pattern")
	return cmd
}

func runTest(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	err = c.validateLogging()
	if err != nil {
		return err
	}
	logger := newLogger(c, cmd.ErrOrStderr())

	filter, err := cmd.Flags().GetString(flagRun)
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[0])
		errOccurred := false
		for _, tc := range cs {
			if tc.Error != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to read a test case or a directory: %v\n%v\n", tc.FilePath, tc.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Cases:  cs,
		Filter: filter,
		Logger: logger,
	}
	rs, err := t.Run()
	if err != nil {
		return err
	}
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(cmd.OutOrStdout(), r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
