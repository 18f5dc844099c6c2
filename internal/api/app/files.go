package app

import (
	"context"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

type FileAPI struct {
	repo  ports.FileRepository
	units ports.UnitRepository
	trans ports.TranslationRepository
}

func NewFileAPI(repo ports.FileRepository, units ports.UnitRepository, trans ports.TranslationRepository) *FileAPI {
	return &FileAPI{repo: repo, units: units, trans: trans}
}

// FileSummary is a file with its per-status translation counts for the
// file's own locale.
type FileSummary struct {
	File     *domain.File   `json:"file"`
	Units    int            `json:"units"`
	ByStatus map[string]int `json:"by_status"`
}

func (a *FileAPI) ListByProject(ctx context.Context, projectID int64) ([]FileSummary, error) {
	files, err := a.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]FileSummary, 0, len(files))
	for _, f := range files {
		units, err := a.units.ListByFile(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		counts, err := a.trans.CountByStatus(ctx, f.ID, f.Locale)
		if err != nil {
			return nil, err
		}
		out = append(out, FileSummary{File: f, Units: len(units), ByStatus: counts})
	}
	return out, nil
}

func (a *FileAPI) Get(ctx context.Context, id int64) (*domain.File, error) {
	return a.repo.Get(ctx, id)
}

func (a *FileAPI) Delete(ctx context.Context, id int64) error {
	if _, err := a.repo.Get(ctx, id); err != nil {
		return err
	}
	return a.repo.Delete(ctx, id)
}
