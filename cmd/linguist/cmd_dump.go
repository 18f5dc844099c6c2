package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linguist/internal/qm"
	"linguist/internal/ts"
)

var dumpOut string

func initDumpCmd() {
	cmd := &cobra.Command{
		Use:   "dump FILE.qm",
		Short: "Turn a compiled .qm file back into a .ts catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().StringVarP(&dumpOut, "output", "o", "-", "output file")
	rootCmd.AddCommand(cmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	t, err := qm.Open(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	c, err := qm.Decompile(t)
	if err != nil {
		return err
	}
	out, err := ts.EncodeBytes(c)
	if err != nil {
		return err
	}
	if deps := t.Dependencies(); len(deps) > 0 {
		log.Infow("qm dependencies", "files", deps)
	}
	return writeOutput(dumpOut, out)
}
