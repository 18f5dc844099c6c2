package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"linguist/internal/api/app"
	"linguist/internal/qm"
	"linguist/internal/ts"
)

var (
	compileOut       string
	compileDir       string
	compileOpts      qm.Options
	compileDeps      []string
	compileNoSummary bool
	compileStore     bool
)

func initCompileCmd() {
	cmd := &cobra.Command{
		Use:   "compile FILE...|FILE_ID...",
		Short: "Compile .ts catalogs into .qm files (lrelease)",
		Long: `compile writes one .qm file per catalog next to it, into --dir, or to
--output when a single catalog is given. Vanished and obsolete messages are
never compiled; unfinished ones are unless --ignore-unfinished is set.

With --store the arguments are ids of stored catalogs, and each output is
named after the path the catalog was imported from.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompile,
	}
	cmd.Flags().StringVarP(&compileOut, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVarP(&compileDir, "dir", "d", "", "output directory")
	cmd.Flags().BoolVar(&compileOpts.IgnoreUnfinished, "ignore-unfinished", false, "skip unfinished translations")
	cmd.Flags().BoolVar(&compileOpts.IDBased, "idbased", false, "look messages up by id")
	cmd.Flags().BoolVar(&compileOpts.Stripped, "strip", false, "omit source texts where the hash is unique")
	cmd.Flags().StringSliceVar(&compileDeps, "dep", nil, "qm files the result depends on")
	cmd.Flags().BoolVar(&compileNoSummary, "silent", false, "do not print the per-file summary")
	cmd.Flags().BoolVar(&compileStore, "store", false, "compile catalogs from the store by id")
	rootCmd.AddCommand(cmd)
}

type compiled struct {
	Input  string    `json:"input"`
	Output string    `json:"output"`
	Size   int       `json:"size"`
	Result qm.Result `json:"result"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	if compileOut != "" && len(args) > 1 {
		return errors.New("--output needs exactly one input")
	}
	opts := compileOpts
	opts.Dependencies = compileDeps

	load := func(_ context.Context, path string) (*ts.Catalog, string, error) {
		c, err := readCatalog(path)
		return c, path, err
	}
	if compileStore {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		load = storedCatalog(a)
	}

	results := make([]compiled, len(args))
	err := eachFile(cmd.Context(), "compile", args, func(ctx context.Context, i int, arg string) error {
		c, path, err := load(ctx, arg)
		if err != nil {
			return err
		}
		data, res, err := qm.Compile(c, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out := qmPath(path)
		if err := writeOutput(out, data); err != nil {
			return err
		}
		log.Debugw("compiled", "input", path, "output", out, "bytes", len(data))
		results[i] = compiled{Input: path, Output: out, Size: len(data), Result: res}
		return nil
	})
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, results)
	}
	if compileNoSummary {
		return nil
	}
	for _, r := range results {
		fmt.Printf("Updating '%s' (%s)...\n", r.Output, humanize.Bytes(uint64(r.Size)))
		fmt.Printf("    Generated %d translation(s) (%d finished and %d unfinished)\n", r.Result.Generated(), r.Result.Finished, r.Result.Unfinished)
		if r.Result.Untranslated > 0 {
			fmt.Printf("    Ignored %d untranslated source text(s)\n", r.Result.Untranslated)
		}
		if r.Result.Skipped > 0 {
			fmt.Printf("    Skipped %d unfinished translation(s)\n", r.Result.Skipped)
		}
		if r.Result.NoID > 0 {
			fmt.Printf("    Dropped %d message(s) which had no ID\n", r.Result.NoID)
		}
		if r.Result.Duplicates > 0 {
			fmt.Printf("    Dropped %d duplicate message(s)\n", r.Result.Duplicates)
		}
	}
	return nil
}

// storedCatalog loads the catalog with the id in arg and names it after its
// import path.
func storedCatalog(a *app.App) func(ctx context.Context, arg string) (*ts.Catalog, string, error) {
	return func(ctx context.Context, arg string) (*ts.Catalog, string, error) {
		id, err := parseID(arg, "file")
		if err != nil {
			return nil, "", err
		}
		f, err := a.Files.Get(ctx, id)
		if err != nil {
			return nil, "", err
		}
		c, err := a.Export.Catalog(ctx, id, f.Locale)
		if err != nil {
			return nil, "", fmt.Errorf("file %d: %w", id, err)
		}
		return c, f.Path, nil
	}
}

func qmPath(input string) string {
	if compileOut != "" {
		return compileOut
	}
	out := strings.TrimSuffix(input, filepath.Ext(input)) + ".qm"
	if compileDir != "" {
		out = filepath.Join(compileDir, filepath.Base(out))
	}
	return out
}
