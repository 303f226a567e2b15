package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declbridge/declbridge/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}
