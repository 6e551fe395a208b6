package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compbeam",
	Short: "Composite beam synthesis engine",
	Long: `compbeam - composite precast/cast-in-place beam synthesizer

Builds the full 3D entity graph of a composite beam from a declarative
definition file: layer solids split at the precast boundary, longitudinal
and transverse reinforcement with web-opening avoidance, post-tensioning
duct voids, and the two-stage activation plan for staged analysis.`,
}

func main() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
