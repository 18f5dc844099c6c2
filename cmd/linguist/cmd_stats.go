package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"linguist/internal/ts"
)

var statsContexts bool

func initStatsCmd() {
	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Show translation progress of catalogs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStats,
	}
	cmd.Flags().BoolVar(&statsContexts, "contexts", false, "break the counts down per context")
	rootCmd.AddCommand(cmd)
}

type fileStats struct {
	File    string     `json:"file"`
	Summary ts.Summary `json:"summary"`
}

func runStats(cmd *cobra.Command, args []string) error {
	stats := make([]fileStats, len(args))
	err := eachFile(cmd.Context(), "stats", args, func(_ context.Context, i int, path string) error {
		c, err := readCatalog(path)
		if err != nil {
			return err
		}
		stats[i] = fileStats{File: path, Summary: ts.Stats(c)}
		return nil
	})
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, stats)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tLANGUAGE\tFINISHED\tUNFINISHED\tVANISHED\tWORDS\tDONE")
	for _, fs := range stats {
		writeCounts(w, fs.File, fs.Summary.Language, fs.Summary.Total)
		if statsContexts {
			for _, cs := range fs.Summary.Contexts {
				writeCounts(w, "  "+cs.Name, "", cs.Counts)
			}
		}
	}
	return w.Flush()
}

func writeCounts(w *tabwriter.Writer, name, lang string, c ts.Counts) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%.1f%%\n",
		name, lang, c.Finished, c.Unfinished, c.Vanished+c.Obsolete, humanize.Comma(int64(c.SourceWords)), c.Percent())
}
