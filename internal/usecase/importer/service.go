package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	parreg "linguist/internal/adapters/parser/registry"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

var log = logging.Logger("import")

type Service struct {
	Files          ports.FileRepository
	Units          ports.UnitRepository
	Trans          ports.TranslationRepository
	ParserRegistry *parreg.Registry
}

func New(files ports.FileRepository, units ports.UnitRepository, trans ports.TranslationRepository, reg *parreg.Registry) *Service {
	return &Service{Files: files, Units: units, Trans: trans, ParserRegistry: reg}
}

type ImportArgs struct {
	ProjectID int64
	Filename  string
	Format    string // detected from Filename when empty
	Locale    string // overrides the locale declared by the file
	Content   []byte
	// Prune drops stored units that are no longer in the file.
	Prune bool
}

type ImportResult struct {
	FileID       int64
	Locale       string
	Units        int
	Translations int
	Pruned       int64
	Unchanged    bool
}

// Import stores a catalog file. Importing the same path and locale again
// updates the existing file record instead of creating a new one.
func (s *Service) Import(ctx context.Context, in ImportArgs) (ImportResult, error) {
	format := in.Format
	if format == "" {
		f, err := parreg.DetectFormat(in.Filename)
		if err != nil {
			return ImportResult{}, err
		}
		format = f
	}
	parser, err := s.ParserRegistry.Resolve(format)
	if err != nil {
		return ImportResult{}, err
	}
	pr, err := parser.Parse(in.Content)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse %s: %w", in.Filename, err)
	}
	locale := in.Locale
	if locale == "" {
		locale = pr.Locale
	}
	hash := contentHash(in.Content)
	res := ImportResult{Locale: locale}

	f, err := s.Files.FindByPath(ctx, in.ProjectID, in.Filename, locale)
	switch {
	case err == nil:
		res.FileID = f.ID
		if f.Hash == hash {
			log.Infow("file unchanged", "file", in.Filename, "locale", locale)
			res.Unchanged = true
			return res, nil
		}
		f.Format, f.SourceLang = format, pr.SourceLang
	case errors.Is(err, ports.ErrNotFound):
		// the hash is only recorded once the content is stored
		f = &domain.File{ProjectID: in.ProjectID, Path: in.Filename, Format: format, Locale: locale, SourceLang: pr.SourceLang}
		if err := s.Files.Create(ctx, f); err != nil {
			return res, err
		}
		res.FileID = f.ID
	default:
		return res, err
	}

	keys := make([]string, 0, len(pr.Units))
	for _, u := range pr.Units {
		u.FileID = f.ID
		keys = append(keys, u.Key)
	}
	if err := s.Units.UpsertBatch(ctx, pr.Units); err != nil {
		return res, err
	}
	res.Units = len(pr.Units)
	if in.Prune {
		if res.Pruned, err = s.Units.DeleteExcept(ctx, f.ID, keys); err != nil {
			return res, fmt.Errorf("prune units: %w", err)
		}
	}

	var trs []*domain.Translation
	for _, u := range pr.Units {
		t, ok := pr.Translations[u.Key]
		if !ok || locale == "" {
			continue
		}
		t.UnitID = u.ID
		t.Locale = locale
		trs = append(trs, t)
	}
	if err := s.Trans.UpsertBatch(ctx, trs); err != nil {
		return res, err
	}
	res.Translations = len(trs)

	f.Hash = hash
	if err := s.Files.Update(ctx, f); err != nil {
		return res, fmt.Errorf("update file: %w", err)
	}
	log.Infow("imported", "file", in.Filename, "locale", locale, "units", res.Units, "translations", res.Translations, "pruned", res.Pruned)
	return res, nil
}

func contentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
