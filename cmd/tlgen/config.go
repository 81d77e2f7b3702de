package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagConfig      = "config"
	flagTLFile      = "tl-file"
	flagOutputFile  = "output-file"
	flagSkipNLines  = "skip-n-lines"
	flagVerbose     = "verbose"
	flagTraceParser = "trace-parser"
	flagLogFormat   = "log-format"
	flagRun         = "run"
)

const (
	keyTLFile      = "tl_file"
	keyOutputFile  = "output_file"
	keySkipNLines  = "skip_n_lines"
	keyVerbose     = "verbose"
	keyTraceParser = "trace_parser"
	keyLogFormat   = "log_format"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

const (
	envPrefix      = "TLGEN"
	configFileName = ".tlgen"
)

var flagKeys = map[string]string{
	keyTLFile:      flagTLFile,
	keyOutputFile:  flagOutputFile,
	keySkipNLines:  flagSkipNLines,
	keyVerbose:     flagVerbose,
	keyTraceParser: flagTraceParser,
	keyLogFormat:   flagLogFormat,
}

type config struct {
	TLFile      string `mapstructure:"tl_file"`
	OutputFile  string `mapstructure:"output_file"`
	SkipNLines  int    `mapstructure:"skip_n_lines"`
	Verbose     bool   `mapstructure:"verbose"`
	TraceParser bool   `mapstructure:"trace_parser"`
	LogFormat   string `mapstructure:"log_format"`
}

// loadConfig merges the flags of cmd with TLGEN_* environment variables and the config file.
// A flag set on the command line wins over the environment, which wins over the file.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		err := v.BindPFlag(key, f)
		if err != nil {
			return nil, err
		}
	}

	cfgFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Cannot read the config file: %w", err)
		}
	}

	c := &config{}
	err = v.Unmarshal(c)
	if err != nil {
		return nil, fmt.Errorf("Cannot decode the config: %w", err)
	}
	return c, nil
}

func (c *config) validateLogging() error {
	switch c.LogFormat {
	case logFormatText, logFormatJSON:
		return nil
	}
	return fmt.Errorf("%v must be %v or %v: %q", keyLogFormat, logFormatText, logFormatJSON, c.LogFormat)
}

// validateGenerate checks the settings the generate commands need before anything is read or written.
func (c *config) validateGenerate() error {
	err := c.validateLogging()
	if err != nil {
		return err
	}

	if c.TLFile == "" {
		return fmt.Errorf("%v is required (--%v)", keyTLFile, flagTLFile)
	}
	fi, err := os.Stat(c.TLFile)
	if err != nil {
		return fmt.Errorf("Cannot read the schema file: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("the schema file is not a regular file: %v", c.TLFile)
	}

	if c.OutputFile == "" {
		return fmt.Errorf("%v is required (--%v)", keyOutputFile, flagOutputFile)
	}
	dir := filepath.Dir(c.OutputFile)
	fi, err = os.Stat(dir)
	if err != nil {
		return fmt.Errorf("Cannot write the output file: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("the parent of the output file is not a directory: %v", dir)
	}

	if c.SkipNLines < 0 {
		return fmt.Errorf("%v must be non-negative: %v", keySkipNLines, c.SkipNLines)
	}
	return nil
}
