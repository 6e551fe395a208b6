package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Dopamine-mania/pkpm-plug/pkg/beamdef"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a beam definition file without synthesizing",
	Long: `Parse a definition file and run the full cross-field parameter
checks on every beam.

Example:
  compbeam validate -f beam.hcl`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "beam definition file (.hcl) [required]")
	validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	beams, err := beamdef.LoadFile(validateFile)
	if err != nil {
		return err
	}

	failed := 0
	for _, b := range beams {
		p := b.Params
		p.ApplyDefaults()
		errs := p.Validate()
		if len(errs) == 0 {
			fmt.Printf("beam %q: ok\n", b.Name)
			continue
		}
		failed++
		fmt.Printf("beam %q: %d problem(s)\n", b.Name, len(errs))
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d beams invalid", failed, len(beams))
	}
	return nil
}
