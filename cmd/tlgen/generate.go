package main

import (
	"fmt"

	"github.com/nihei9/tlgen/generator"
	"github.com/nihei9/tlgen/parser"
	"github.com/nihei9/tlgen/schema"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateShorts = map[string]string{
	generator.ModeJSON:  "Generate a JSON description of a schema",
	generator.ModeYAML:  "Generate a YAML description of a schema",
	generator.ModeAttrs: "Generate Python attrs classes from a schema",
}

func newGenerateCmd(mode string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     mode,
		Short:   generateShorts[mode],
		Example: fmt.Sprintf(`  tlgen %v --tl-file td_api.tl --output-file td_api%v`, mode, extensionOf(mode)),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, mode)
		},
	}
	cmd.Flags().String(flagTLFile, "", "schema file path")
	cmd.Flags().String(flagOutputFile, "", "output file path")
	cmd.Flags().Int(flagSkipNLines, parser.DefaultSkipLines, "number of header lines to skip")
	cmd.Flags().Bool(flagTraceParser, false, "log every line the parser matches (needs --verbose)")
	return cmd
}

func extensionOf(mode string) string {
	g, err := generator.New(mode)
	if err != nil {
		return ""
	}
	return g.FileExtension()
}

func runGenerate(cmd *cobra.Command, mode string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	err = c.validateGenerate()
	if err != nil {
		return err
	}
	logger := newLogger(c, cmd.ErrOrStderr())

	g, err := generator.New(mode)
	if err != nil {
		return err
	}

	logger.WithField("file", c.TLFile).Info("parsing file")
	opts := []schema.LoadOption{
		schema.SkipLines(c.SkipNLines),
		schema.Logger(logger),
	}
	if c.TraceParser {
		opts = append(opts, schema.TraceParser())
	}
	def, err := schema.LoadFile(c.TLFile, opts...)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"types":     len(def.Types),
		"functions": len(def.Functions),
	}).Debug("loaded the schema")

	out, err := g.Generate(def)
	if err != nil {
		return err
	}
	err = writeFileAtomic(c.OutputFile, out)
	if err != nil {
		return fmt.Errorf("Cannot write the output file: %w", err)
	}
	logger.WithField("file", c.OutputFile).Info("file successfully written")
	return nil
}
