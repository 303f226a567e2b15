package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/declbridge/declbridge/errors"
)

var checkCmd = &cobra.Command{
	Use:   "check [dirs...]",
	Short: "Verify committed generated files are up to date",
	Long: `Render each package's generated file in memory and compare it with the
committed file, without writing anything.

Exit codes:
  0 - generated files are up to date
  1 - a file is stale or a directive failed to expand`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	stale := 0
	failed := 0
	for _, dir := range targetDirs(args) {
		report, err := e.Check(dir)
		if err != nil {
			return errors.Wrapf(err, "checking %s", dir)
		}
		failed += printReport(report)
		if report.Stale {
			stale++
			pterm.Warning.Printfln("%s is out of date; run declbridge generate", report.File)
		}
	}
	switch {
	case failed > 0:
		return errors.Newf("%d directive(s) failed to expand", failed)
	case stale > 0:
		return errors.Newf("%d generated file(s) out of date", stale)
	}
	pterm.Success.Printfln("generated files are up to date")
	return nil
}
