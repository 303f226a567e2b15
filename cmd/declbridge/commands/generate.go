package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/declbridge/declbridge/engine"
	"github.com/declbridge/declbridge/errors"
)

var generateCmd = &cobra.Command{
	Use:   "generate [dirs...]",
	Short: "Expand declbridge directives and write generated files",
	Long: `Scan each package directory for declbridge directives and write the
package's generated file. With no arguments the current directory is
processed.

Examples:
  declbridge generate              # current package
  declbridge generate pkg/a pkg/b  # explicit directories`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	failed := 0
	for _, dir := range targetDirs(args) {
		report, err := e.Generate(dir)
		if err != nil {
			return errors.Wrapf(err, "generating %s", dir)
		}
		failed += printReport(report)
		if report.Wrote {
			pterm.Success.Printfln("wrote %s", report.File)
		}
	}
	if failed > 0 {
		return errors.Newf("%d directive(s) failed to expand", failed)
	}
	return nil
}

// printReport renders the report's diagnostics and returns their count.
func printReport(report *engine.Report) int {
	for _, d := range report.Diags {
		fmt.Println(d.Terminal())
	}
	return len(report.Diags)
}
