// Package commands wires the declbridge CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/declbridge/declbridge/config"
	"github.com/declbridge/declbridge/engine"
	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/logger"
	"github.com/declbridge/declbridge/registry"
)

var (
	flagRoot          string
	flagGeneratedFile string
	flagJSONLogs      bool
	flagVerbosity     int
)

// RootCmd is the declbridge command-line entry point.
var RootCmd = &cobra.Command{
	Use:   "declbridge",
	Short: "Export, import, and forward Go declarations across packages",
	Long: `declbridge is a directive-driven code generator.

Mark a declaration with //declbridge:export and any other package can
rematerialize it with //declbridge:import or relay it to a bridged
generator with //declbridge:forward, without either side knowing the
other's location ahead of time.

Configuration comes from declbridge.toml (found by walking up from the
working directory) and DECLBRIDGE_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "loading configuration")
		}
		return logger.InitializeWithVerbosity(flagJSONLogs || cfg.Log.JSON, flagVerbosity)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagRoot, "root", "",
		"runtime import path referenced by generated code (overrides config)")
	RootCmd.PersistentFlags().StringVar(&flagGeneratedFile, "generated-file", "",
		"per-package generated file name (overrides config)")
	RootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false,
		"emit JSON structured logs")
	RootCmd.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v",
		"increase output verbosity (-v, -vv)")

	RootCmd.AddCommand(generateCmd)
	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(versionCmd)
}

// newEngine builds an engine from the resolved configuration plus flag
// overrides.
func newEngine() (*engine.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading configuration")
	}
	root := cfg.RootPath
	if flagRoot != "" {
		root = flagRoot
	}
	generated := cfg.GeneratedFile
	if flagGeneratedFile != "" {
		generated = flagGeneratedFile
	}
	return engine.New(
		engine.WithRoot(root),
		engine.WithGeneratedFile(generated),
		engine.WithResolver(&registry.PackageResolver{}),
	), nil
}

// targetDirs defaults to the current package directory.
func targetDirs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
