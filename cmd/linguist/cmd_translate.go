package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"

	"linguist/internal/api/app"
	"linguist/internal/domain"
	"linguist/internal/usecase/jobs"
)

var (
	translateProvider string
	translateTo       string
	translateModel    string
	translateSource   string
	translateAccept   bool
	translateUnits    string
)

func initTranslateCmd() {
	cmd := &cobra.Command{
		Use:   "translate FILE_ID",
		Short: "Machine translate the unfinished messages of a stored catalog",
		Long: `translate sends every message without a translation to an LLM provider
and stores the answers as unfinished, so they still show up for review.
Placeholders, markup and accelerators are protected; answers that lose a
placeholder are rejected. Interrupt with Ctrl-C to cancel the job.`,
		Args: cobra.ExactArgs(1),
		RunE: runTranslate,
	}
	cmd.Flags().StringVar(&translateProvider, "provider", "", "provider name or id (default provider.default, then the stored default)")
	cmd.Flags().StringVar(&translateTo, "to", "", "comma separated target locales (default the file's)")
	cmd.Flags().StringVar(&translateModel, "model", "", "model (default the provider's)")
	cmd.Flags().StringVar(&translateSource, "source-lang", "", "source language (default the file's)")
	cmd.Flags().BoolVar(&translateAccept, "accept", false, "mark the machine translations finished right away")
	cmd.Flags().StringVar(&translateUnits, "units", "", "comma separated unit ids to translate instead of the whole file")
	rootCmd.AddCommand(cmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	prov, err := translationProvider(ctx, a)
	if err != nil {
		return err
	}
	f, err := a.Files.Get(ctx, id)
	if err != nil {
		return err
	}
	locales := splitList(translateTo)
	if len(locales) == 0 {
		locales = []string{f.Locale}
	}

	var unitIDs []int64
	for _, u := range splitList(translateUnits) {
		uid, err := parseID(u, "unit")
		if err != nil {
			return err
		}
		unitIDs = append(unitIDs, uid)
	}

	em := &barEmitter{p: newProgress(false)}
	var sum jobs.Summary
	if len(unitIDs) > 0 {
		src := translateSource
		if src == "" {
			src = f.SourceLang
		}
		sum, err = a.Jobs.RunTranslateUnits(ctx, app.TranslateUnitsRequest{
			ProjectID:  f.ProjectID,
			ProviderID: prov.ID,
			UnitIDs:    unitIDs,
			Locales:    locales,
			SourceLang: src,
			Model:      translateModel,
		}, em)
	} else {
		sum, err = a.Jobs.RunTranslateFile(ctx, app.TranslateFileRequest{
			ProjectID:  f.ProjectID,
			ProviderID: prov.ID,
			FileID:     id,
			Locales:    locales,
			SourceLang: translateSource,
			Model:      translateModel,
		}, em)
	}
	em.finish()
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			return fmt.Errorf("job #%d canceled after %d of %d messages", sum.JobID, sum.Done, sum.Total)
		}
		return err
	}

	if flags.JSON {
		return printJSON(os.Stdout, sum)
	}
	fmt.Printf("job #%d %s: %d translated, %d failed\n", sum.JobID, status(sum.Status), sum.Done-sum.Failed, sum.Failed)
	if translateAccept {
		for _, loc := range locales {
			n, err := a.Translations.Accept(ctx, id, loc, true)
			if err != nil {
				return err
			}
			fmt.Printf("accepted %d %s translation(s)\n", n, loc)
		}
	}
	if sum.Failed > 0 {
		fmt.Printf("see %s for the errors\n", bold(fmt.Sprintf("linguist jobs show %d", sum.JobID)))
	}
	return nil
}

// barEmitter drives a progress bar from job events.
type barEmitter struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func (e *barEmitter) Emit(name string, payload any) {
	m, _ := payload.(map[string]any)
	switch name {
	case jobs.EventStarted:
		if total, _ := m["total"].(int); total > 0 {
			e.bar = addBar(e.p, "translate", total)
		}
	case jobs.EventItemDone:
		if e.bar != nil {
			e.bar.Increment()
		}
		if msg, failed := m["error"].(string); failed {
			log.Warnw("translation failed", "key", m["key"], "locale", m["locale"], "err", msg)
		}
	}
}

func (e *barEmitter) finish() {
	if e.bar != nil && !e.bar.Completed() {
		e.bar.Abort(false)
	}
	e.p.Wait()
}

// translationProvider picks --provider, then provider.default from the
// config, then the default stored with "providers default".
func translationProvider(ctx context.Context, a *app.App) (*domain.Provider, error) {
	ref := translateProvider
	if ref == "" {
		ref = viper.GetString("provider.default")
	}
	if ref != "" {
		return a.Providers.Resolve(ctx, ref)
	}
	p, err := a.Providers.Default(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("no provider: pass --provider or run providers default NAME")
	}
	return p, nil
}
