package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linguist/internal/ts"
	"linguist/internal/usecase/merger"
)

var (
	mergeOut  string
	mergeOpts = merger.Options{Threshold: merger.DefaultThreshold}
)

func initMergeCmd() {
	cmd := &cobra.Command{
		Use:   "merge BASE FRESH",
		Short: "Update a translated catalog with freshly extracted messages (lupdate)",
		Long: `merge carries the translations of BASE over to the messages of FRESH.
Messages that disappeared become vanished, new ones unfinished. BASE is
rewritten in place unless --output is given.`,
		Args: cobra.ExactArgs(2),
		RunE: runMerge,
	}
	cmd.Flags().StringVarP(&mergeOut, "output", "o", "", "output file, - for stdout (default BASE)")
	cmd.Flags().BoolVar(&mergeOpts.NoObsolete, "no-obsolete", false, "drop messages that disappeared")
	cmd.Flags().BoolVar(&mergeOpts.Similar, "similar", false, "reuse translations of similar source texts")
	cmd.Flags().Float64Var(&mergeOpts.Threshold, "threshold", mergeOpts.Threshold, "similarity needed by --similar (0..1)")
	rootCmd.AddCommand(cmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	base, err := readCatalog(args[0])
	if err != nil {
		return err
	}
	fresh, err := readCatalog(args[1])
	if err != nil {
		return err
	}
	merged, res := merger.Merge(base, fresh, mergeOpts)
	data, err := ts.EncodeBytes(merged)
	if err != nil {
		return err
	}
	out := mergeOut
	if out == "" {
		out = args[0]
	}
	if err := writeOutput(out, data); err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stderr, res)
	}
	fmt.Fprintf(os.Stderr, "Found %d source text(s) (%d new and %d already existing)\n", res.Same+res.New+res.Similar, res.New, res.Same)
	if res.Similar > 0 {
		fmt.Fprintf(os.Stderr, "    Same-text heuristic provided %d translation(s)\n", res.Similar)
	}
	if kept := res.Vanished + res.Obsolete; kept > 0 {
		fmt.Fprintf(os.Stderr, "    Kept %d obsolete entries\n", kept)
	}
	if res.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "    Removed %d obsolete entries\n", res.Dropped)
	}
	return nil
}
