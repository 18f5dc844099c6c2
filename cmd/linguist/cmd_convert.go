package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linguist/internal/adapters/catalog"
	exreg "linguist/internal/adapters/exporter/registry"
	parreg "linguist/internal/adapters/parser/registry"
	"linguist/internal/ports"
	"linguist/internal/qm"
)

var (
	convertOut      string
	convertFrom     string
	convertTo       string
	convertLanguage string
)

func initConvertCmd() {
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert catalogs between ts, qm, csv and json (lconvert)",
		Long: `convert reads INPUT in any supported format and writes it in another.
Formats are taken from the file extensions unless --from or --to is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
	cmd.Flags().StringVarP(&convertOut, "output", "o", "", "output file (required)")
	cmd.Flags().StringVar(&convertFrom, "from", "", "input format")
	cmd.Flags().StringVar(&convertTo, "to", "", "output format")
	cmd.Flags().StringVar(&convertLanguage, "language", "", "target language written to the output")
	_ = cmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	in := args[0]
	res, err := parseAny(in, convertFrom)
	if err != nil {
		return err
	}
	to := convertTo
	if to == "" {
		if to, err = parreg.DetectFormat(convertOut); err != nil {
			return err
		}
	}
	exp, err := exreg.Default().Resolve(to)
	if err != nil {
		return err
	}
	lang := convertLanguage
	if lang == "" {
		lang = res.Locale
	}
	data, err := exp.Export(lang, catalog.Items(res))
	if err != nil {
		return fmt.Errorf("export %s: %w", to, err)
	}
	log.Infow("converted", "input", in, "output", convertOut, "messages", len(res.Units))
	return writeOutput(convertOut, data)
}

// parseAny reads a catalog in any parser format, or a compiled .qm file.
func parseAny(path, format string) (ports.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ports.ParseResult{}, err
	}
	if format == "qm" || (format == "" && qm.IsQM(data)) {
		t, err := qm.Open(data)
		if err != nil {
			return ports.ParseResult{}, fmt.Errorf("%s: %w", path, err)
		}
		c, err := qm.Decompile(t)
		if err != nil {
			return ports.ParseResult{}, err
		}
		return catalog.FromCatalog(c), nil
	}
	if format == "" {
		if format, err = parreg.DetectFormat(path); err != nil {
			return ports.ParseResult{}, err
		}
	}
	p, err := parreg.Default().Resolve(format)
	if err != nil {
		return ports.ParseResult{}, err
	}
	res, err := p.Parse(data)
	if err != nil {
		return ports.ParseResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
