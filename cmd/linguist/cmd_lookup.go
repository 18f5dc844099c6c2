package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"linguist/internal/qm"
)

var (
	lookupComment string
	lookupCount   int
)

func initLookupCmd() {
	cmd := &cobra.Command{
		Use:   "lookup FILE.qm CONTEXT SOURCE",
		Short: "Translate one string with a compiled catalog",
		Long: `lookup resolves SOURCE in CONTEXT the way a running application does,
falling back from the disambiguation comment to the plain source text and
picking the plural form for --count.`,
		Args: cobra.ExactArgs(3),
		RunE: runLookup,
	}
	cmd.Flags().StringVarP(&lookupComment, "comment", "c", "", "disambiguation comment")
	cmd.Flags().IntVarP(&lookupCount, "count", "n", -1, "count selecting the plural form")
	rootCmd.AddCommand(cmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	t, err := qm.Open(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	tr, ok := t.Translate(args[1], args[2], lookupComment, lookupCount)
	if !ok {
		return fmt.Errorf("no translation for %q in context %q", args[2], args[1])
	}
	if lookupCount >= 0 {
		// tr() substitutes the count after lookup
		tr = strings.ReplaceAll(tr, "%n", strconv.Itoa(lookupCount))
	}
	fmt.Println(tr)
	return nil
}
