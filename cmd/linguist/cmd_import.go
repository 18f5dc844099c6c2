package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"linguist/internal/api/app"
	"linguist/internal/usecase/importer"
)

var (
	importLocale string
	importFormat string
	importPrune  bool
)

func initImportCmd() {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Load catalogs into the store",
		Long: `import parses each catalog and stores its messages and translations under
the current project. Re-importing a file updates it in place; with --prune
messages that are no longer in the file are removed from the store.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}
	cmd.Flags().StringVar(&importLocale, "locale", "", "override the locale declared by the file")
	cmd.Flags().StringVar(&importFormat, "format", "", "input format (default from extension)")
	cmd.Flags().BoolVar(&importPrune, "prune", false, "remove stored messages missing from the file")
	rootCmd.AddCommand(cmd)
}

type importOutcome struct {
	Path   string                `json:"path"`
	Result importer.ImportResult `json:"result"`
	Error  string                `json:"error,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := currentProject(ctx, a)
	if err != nil {
		return err
	}

	// one writer at a time suits sqlite
	var errs *multierror.Error
	outcomes := make([]importOutcome, 0, len(args))
	for _, path := range args {
		res, err := a.Import.ImportFile(ctx, app.ImportRequest{ProjectID: p.ID, Path: path, Format: importFormat, Locale: importLocale, Prune: importPrune})
		o := importOutcome{Path: path, Result: res}
		if err != nil {
			errs = multierror.Append(errs, err)
			o.Error = err.Error()
		}
		outcomes = append(outcomes, o)
	}

	if flags.JSON {
		if err := printJSON(os.Stdout, outcomes); err != nil {
			return err
		}
		return errs.ErrorOrNil()
	}
	for _, o := range outcomes {
		switch {
		case o.Error != "":
			fmt.Printf("%s %s\n", red("failed"), o.Error)
		case o.Result.Unchanged:
			fmt.Printf("%s %s #%d (%s)\n", faint("unchanged"), o.Path, o.Result.FileID, o.Result.Locale)
		default:
			fmt.Printf("%s %s #%d (%s): %d messages, %d translations", green("imported"), o.Path, o.Result.FileID, o.Result.Locale, o.Result.Units, o.Result.Translations)
			if o.Result.Pruned > 0 {
				fmt.Printf(", %d pruned", o.Result.Pruned)
			}
			fmt.Println()
		}
	}
	return errs.ErrorOrNil()
}
