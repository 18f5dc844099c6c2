package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"linguist/internal/api/app"
)

var (
	exportOut      string
	exportDir      string
	exportFormat   string
	exportLocale   string
	exportLanguage string
	exportFallback bool
)

func initExportCmd() {
	cmd := &cobra.Command{
		Use:   "export FILE_ID",
		Short: "Write a stored catalog out in any supported format",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file, - for stdout (default the stored name)")
	cmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "directory for the default output name")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "ts, qm, csv or json (default the stored format)")
	cmd.Flags().StringVar(&exportLocale, "locale", "", "locale to export (default the file's)")
	cmd.Flags().StringVar(&exportLanguage, "language", "", "language written into the document")
	cmd.Flags().BoolVar(&exportFallback, "fallback", false, "use the source text for missing translations")
	rootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	res, err := a.Export.ExportFile(cmd.Context(), app.ExportFileRequest{
		FileID:         id,
		Locale:         exportLocale,
		OverrideFormat: exportFormat,
		LanguageName:   exportLanguage,
		Fallback:       exportFallback,
	})
	if err != nil {
		return err
	}
	out := exportOut
	if out == "" {
		out = filepath.Join(exportDir, filepath.Base(res.Filename))
	}
	if err := writeOutput(out, res.Content); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(os.Stderr, "wrote %s (%s)\n", out, humanize.Bytes(uint64(len(res.Content))))
	}
	return nil
}
