package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/declbridge/declbridge/engine"
	"github.com/declbridge/declbridge/errors"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Regenerate on source changes",
	Long: `Watch the given package directories and re-run generation whenever a Go
source file changes. Writes to generated files themselves are ignored so
generation never retriggers itself. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dirs := targetDirs(args)
	pterm.Info.Printfln("watching %d directories", len(dirs))

	err = e.Watch(ctx, dirs, func(report *engine.Report) {
		printReport(report)
		if report.Wrote {
			pterm.Success.Printfln("wrote %s", report.File)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
