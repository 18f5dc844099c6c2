package app

import (
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"linguist/internal/adapters/db/sqlite"
	exreg "linguist/internal/adapters/exporter/registry"
	llmfactory "linguist/internal/adapters/llm/factory"
	"linguist/internal/adapters/parser/registry"
	"linguist/internal/adapters/prompt"
	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/usecase/exporter"
	"linguist/internal/usecase/importer"
	"linguist/internal/usecase/jobs"
	"linguist/internal/usecase/translator"
)

var log = logging.Logger("app")

type Options struct {
	DBPath          string
	ProviderTimeout time.Duration
	ItemTimeout     time.Duration
}

// App wires the store, the format registries and the use cases behind the
// facades the command line talks to.
type App struct {
	Store  *sqlite.Store
	Runner *jobs.Runner

	Projects     *ProjectAPI
	Files        *FileAPI
	Import       *ImportAPI
	Export       *ExportAPI
	Providers    *ProviderAPI
	Templates    *TemplatesAPI
	Jobs         *JobsAPI
	Translations *TranslationsAPI
}

func Open(opts Options) (*App, error) {
	st, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", opts.DBPath, err)
	}
	log.Debugw("store opened", "path", opts.DBPath)

	build := func(p *domain.Provider) (ports.Provider, error) {
		return llmfactory.FromProvider(p, opts.ProviderTimeout)
	}
	renderer := prompt.New(st.Templates)
	trans := translator.New(translator.Deps{
		Providers:     st.Providers,
		Templates:     st.Templates,
		Cache:         st.Cache,
		Translations:  st.Translations,
		Prompt:        renderer,
		BuildProvider: build,
	})
	runner := jobs.NewRunner(jobs.Deps{
		Jobs:         st.Jobs,
		Files:        st.Files,
		Units:        st.Units,
		Providers:    st.Providers,
		Translations: st.Translations,
		Translator:   trans,
	})
	if opts.ItemTimeout > 0 {
		runner.ItemTimeout = opts.ItemTimeout
	}

	return &App{
		Store:        st,
		Runner:       runner,
		Projects:     NewProjectAPI(st.Projects),
		Files:        NewFileAPI(st.Files, st.Units, st.Translations),
		Import:       NewImportAPI(importer.New(st.Files, st.Units, st.Translations, registry.Default()), st.Projects),
		Export:       NewExportAPI(exporter.New(st.Files, st.Units, st.Translations, exreg.Default())),
		Providers:    NewProviderAPI(st.Providers, st.Settings, build),
		Templates:    NewTemplatesAPI(st.Templates, renderer),
		Jobs:         NewJobsAPI(runner, st.Jobs, st.Providers),
		Translations: NewTranslationsAPI(st.Translations, st.Units),
	}, nil
}

// Close waits for background jobs and closes the store.
func (a *App) Close() error {
	a.Runner.Wait()
	return a.Store.Close()
}
