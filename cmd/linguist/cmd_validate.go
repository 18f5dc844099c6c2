package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linguist/internal/ts"
)

var validateStrict bool

func initValidateCmd() {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check catalogs for structural and translation problems",
		Long: `validate reports empty or duplicate messages, placeholder and accelerator
mismatches, numerus form counts and punctuation differences.

The command fails when any error is found, or any warning with --strict.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on warnings too")
	rootCmd.AddCommand(cmd)
}

type fileReport struct {
	File   string     `json:"file"`
	Report *ts.Report `json:"report"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	reports := make([]fileReport, len(args))
	err := eachFile(cmd.Context(), "validate", args, func(_ context.Context, i int, path string) error {
		c, err := readCatalog(path)
		if err != nil {
			return err
		}
		reports[i] = fileReport{File: path, Report: ts.Validate(c)}
		return nil
	})
	if err != nil {
		return err
	}

	errs, warns := 0, 0
	for _, fr := range reports {
		errs += fr.Report.Count(ts.SeverityError)
		warns += fr.Report.Count(ts.SeverityWarning)
	}
	if flags.JSON {
		if err := printJSON(os.Stdout, reports); err != nil {
			return err
		}
	} else {
		for _, fr := range reports {
			for _, is := range fr.Report.Issues {
				fmt.Printf("%s: %s %s: %s\n", bold(fr.File), severity(is.Severity), faint(is.Code), is.Error())
			}
		}
		fmt.Printf("%d file(s), %s, %s\n", len(reports), plural(errs, "error"), plural(warns, "warning"))
	}
	if errs > 0 || (validateStrict && warns > 0) {
		return fmt.Errorf("validation failed: %s, %s", plural(errs, "error"), plural(warns, "warning"))
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
