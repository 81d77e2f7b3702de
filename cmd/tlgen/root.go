package main

import (
	"github.com/nihei9/tlgen/generator"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tlgen",
		Short: "Generate JSON, YAML, or Python declarations from a TL schema",
		Long: `tlgen reads a TL schema file and provides two features:
- Generates a JSON or YAML description of the types and functions the schema declares,
  or Python attrs classes for them.
- Tests the generators against golden files.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().String(flagConfig, "", "config file (default is ./.tlgen.yaml)")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "enable debug logging")
	cmd.PersistentFlags().String(flagLogFormat, logFormatText, "log format (text or json)")

	for _, mode := range generator.Modes() {
		cmd.AddCommand(newGenerateCmd(mode))
	}
	cmd.AddCommand(newTestCmd())
	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}
