package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"linguist/internal/api/app"
	"linguist/internal/domain"
)

var (
	showLocale       string
	showUntranslated bool
	setLocale        string
	setUnfinished    bool
)

func initFilesCmd() {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the catalogs stored for the project",
		Args:  cobra.NoArgs,
		RunE:  runFilesList,
	}
	show := &cobra.Command{
		Use:   "show FILE_ID",
		Short: "Print the messages of a stored catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilesShow,
	}
	show.Flags().StringVar(&showLocale, "locale", "", "locale to show (default the file's)")
	show.Flags().BoolVar(&showUntranslated, "untranslated", false, "only messages that are not finished")
	rm := &cobra.Command{
		Use:   "rm FILE_ID",
		Short: "Remove a catalog and its translations from the store",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilesRemove,
	}
	set := &cobra.Command{
		Use:   "set FILE_ID UNIT_ID TEXT...",
		Short: "Store a translation by hand; numerus messages take one TEXT per form",
		Args:  cobra.MinimumNArgs(3),
		RunE:  runFilesSet,
	}
	set.Flags().StringVar(&setLocale, "locale", "", "locale (default the file's)")
	set.Flags().BoolVar(&setUnfinished, "unfinished", false, "keep the translation unfinished")
	cmd.AddCommand(show, set, rm)
	rootCmd.AddCommand(cmd)
}

func runFilesList(cmd *cobra.Command, _ []string) error {
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
	files, err := a.Files.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(os.Stdout, files)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATH\tFORMAT\tLOCALE\tMESSAGES\tFINISHED\tUNFINISHED\tVANISHED")
	for _, f := range files {
		s := f.ByStatus
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n", f.File.ID, f.File.Path, f.File.Format, f.File.Locale, f.Units,
			s[domain.StatusFinished], s[domain.StatusUnfinished], s[domain.StatusVanished]+s[domain.StatusObsolete])
	}
	return w.Flush()
}

func runFilesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	locale := showLocale
	if locale == "" {
		f, err := a.Files.Get(ctx, id)
		if err != nil {
			return err
		}
		locale = f.Locale
	}
	texts, err := a.Translations.ListUnitTexts(ctx, id, locale)
	if err != nil {
		return err
	}
	if showUntranslated {
		kept := texts[:0]
		for _, t := range texts {
			if t.Status == domain.StatusUnfinished {
				kept = append(kept, t)
			}
		}
		texts = kept
	}
	if flags.JSON {
		return printJSON(os.Stdout, texts)
	}
	for _, t := range texts {
		tr := t.Translation
		if len(t.Forms) > 0 {
			tr = fmt.Sprintf("%q", t.Forms)
		}
		mark := ""
		if t.Machine {
			mark = faint(" (machine)")
		}
		fmt.Printf("%s %s %s\n    %s\n    %s%s\n", faint(t.Key), bold(t.Context), status(t.Status), t.Source, tr, mark)
	}
	return nil
}

func runFilesSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fileID, err := parseID(args[0], "file")
	if err != nil {
		return err
	}
	unitID, err := parseID(args[1], "unit")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	f, err := a.Files.Get(ctx, fileID)
	if err != nil {
		return err
	}
	locale := setLocale
	if locale == "" {
		locale = f.Locale
	}
	texts, err := a.Translations.ListUnitTexts(ctx, fileID, locale)
	if err != nil {
		return err
	}
	var unit *app.UnitText
	for _, t := range texts {
		if t.UnitID == unitID {
			unit = t
		}
	}
	if unit == nil {
		return fmt.Errorf("unit %d is not part of file %d", unitID, fileID)
	}
	req := app.UpsertTranslationRequest{UnitID: unitID, Locale: locale, Status: domain.StatusFinished}
	if setUnfinished {
		req.Status = domain.StatusUnfinished
	}
	if unit.Numerus {
		req.Forms = args[2:]
	} else if len(args) > 3 {
		return fmt.Errorf("unit %d is not numerus, pass a single TEXT", unitID)
	} else {
		req.Text = args[2]
	}
	if err := a.Translations.Upsert(ctx, req); err != nil {
		return err
	}
	fmt.Printf("%s %s: %s\n", faint(unit.Key), locale, status(req.Status))
	return nil
}

func runFilesRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Files.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("removed file #%d\n", id)
	return nil
}
