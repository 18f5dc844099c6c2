package exporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"linguist/internal/adapters/catalog"
	exreg "linguist/internal/adapters/exporter/registry"
	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

type Service struct {
	Files ports.FileRepository
	Units ports.UnitRepository
	Trans ports.TranslationRepository
	Reg   *exreg.Registry
}

func New(files ports.FileRepository, units ports.UnitRepository, trans ports.TranslationRepository, reg *exreg.Registry) *Service {
	return &Service{Files: files, Units: units, Trans: trans, Reg: reg}
}

type ExportArgs struct {
	FileID int64
	Locale string // defaults to the file's locale
	// Fallback writes the source text where a message has no translation.
	Fallback       bool
	OverrideFormat string
	LanguageName   string // written as the document language; defaults to Locale
}

type ExportResult struct {
	Filename string
	Content  []byte
}

// Items rebuilds the messages of a file with their translations for locale.
func (s *Service) Items(ctx context.Context, fileID int64, locale string) (*domain.File, []ports.ExportItem, error) {
	f, err := s.Files.Get(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if locale == "" {
		locale = f.Locale
	}
	units, err := s.Units.ListByFile(ctx, f.ID)
	if err != nil {
		return nil, nil, err
	}
	trList, err := s.Trans.ListByFileLocale(ctx, f.ID, locale)
	if err != nil {
		return nil, nil, err
	}
	trByUnit := make(map[int64]*domain.Translation, len(trList))
	for _, t := range trList {
		trByUnit[t.UnitID] = t
	}
	items := make([]ports.ExportItem, 0, len(units))
	for _, u := range units {
		items = append(items, catalog.Item(u, trByUnit[u.ID]))
	}
	return f, items, nil
}

// ExportCatalog rebuilds a file as a ts catalog, ready for validation or
// compilation.
func (s *Service) ExportCatalog(ctx context.Context, fileID int64, locale string) (*ts.Catalog, error) {
	f, items, err := s.Items(ctx, fileID, locale)
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = f.Locale
	}
	return catalog.ToCatalog(locale, f.SourceLang, items)
}

func (s *Service) ExportFile(ctx context.Context, a ExportArgs) (ExportResult, error) {
	f, items, err := s.Items(ctx, a.FileID, a.Locale)
	if err != nil {
		return ExportResult{}, err
	}
	format := f.Format
	if a.OverrideFormat != "" {
		format = a.OverrideFormat
	}
	exp, err := s.Reg.Resolve(format)
	if err != nil {
		return ExportResult{}, err
	}
	if a.Fallback {
		for i := range items {
			if !items[i].Numerus && items[i].Translation == "" {
				items[i].Translation = items[i].SourceText
			}
		}
	}
	lang := a.LanguageName
	if lang == "" {
		lang = a.Locale
	}
	if lang == "" {
		lang = f.Locale
	}
	content, err := exp.Export(lang, items)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export %s as %s: %w", f.Path, format, err)
	}
	return ExportResult{Filename: withExt(f.Path, format), Content: content}, nil
}

func withExt(path, format string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
}
