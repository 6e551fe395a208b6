package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Dopamine-mania/pkpm-plug/pkg/beamdef"
	"github.com/Dopamine-mania/pkpm-plug/pkg/kernel/sdfx"
	"github.com/Dopamine-mania/pkpm-plug/pkg/synth"
)

var (
	buildFile    string
	buildVerbose bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Synthesize the entity graph and activation plan",
	Long: `Synthesize every beam in a definition file and print the entity,
rebar group and stage summary.

Example:
  compbeam build -f beam.hcl`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "beam definition file (.hcl) [required]")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "log synthesis progress")
	buildCmd.MarkFlagRequired("file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	beams, err := beamdef.LoadFile(buildFile)
	if err != nil {
		return err
	}

	opts := &synth.Options{Kernel: sdfx.New()}
	if buildVerbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	for _, b := range beams {
		res, err := synth.Synthesize(&b.Params, opts)
		if err != nil {
			return errors.Wrapf(err, "beam %q", b.Name)
		}
		printResult(b.Name, res)
	}
	return nil
}

func printResult(name string, res *synth.Result) {
	m := res.Model
	fmt.Printf("Beam %s\n", name)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  Nodes\t%d\n", len(m.Nodes))
	fmt.Fprintf(w, "  Edges\t%d\n", len(m.Edges))
	fmt.Fprintf(w, "  Surfaces\t%d\n", len(m.Surfaces))
	fmt.Fprintf(w, "  Solids\t%d\n", len(m.Solids))
	fmt.Fprintf(w, "  Rebar segments\t%d\n", len(m.RebarEdges()))
	w.Flush()

	groups := make([]string, 0, len(m.Groups))
	for g := range m.Groups {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	fmt.Println("  Rebar groups:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(w, "    %s\t%d\n", g, len(m.Groups[g]))
	}
	w.Flush()

	fmt.Println("  Stages:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range res.Plan.Stages {
		fmt.Fprintf(w, "    %s\tsolids %d\trebar %d\tloads %d\n",
			s.Name, len(s.Solids), len(s.Rebar), len(s.Loads))
	}
	w.Flush()

	for _, warn := range res.Report.Warnings {
		fmt.Printf("  warning: %s\n", warn)
	}
	for _, skip := range res.Report.Skips {
		fmt.Printf("  skipped: %s\n", skip)
	}
}
