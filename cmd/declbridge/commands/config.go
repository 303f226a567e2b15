package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declbridge/declbridge/config"
	"github.com/declbridge/declbridge/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect declbridge configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "loading configuration")
		}
		fmt.Printf("root_path      = %q\n", cfg.RootPath)
		fmt.Printf("generated_file = %q\n", cfg.GeneratedFile)
		fmt.Printf("log.json       = %v\n", cfg.Log.JSON)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
