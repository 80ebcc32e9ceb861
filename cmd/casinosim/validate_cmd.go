package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/casino-floor-simulation/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [layout.yaml]",
	Short: "Check a layout file, or print the built-in layout with --print-default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if printDefault, _ := cmd.Flags().GetBool("print-default"); printDefault {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		}

		if len(args) == 0 {
			return fmt.Errorf("a layout file is required")
		}

		layout, err := config.Load(args[0])
		if err != nil {
			return err
		}

		floor := layout.Facility()
		dealers := 0
		for _, g := range floor.Games {
			dealers += g.Tables
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(),
			"%s is valid: %d games with %d dealers, %d bars, %d restaurants, %d profiles\n",
			args[0], len(floor.Games), dealers, len(floor.Bars), len(floor.Restaurants), len(floor.Profiles))

		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("print-default", false, "print the built-in layout and exit")
	rootCmd.AddCommand(validateCmd)
}
