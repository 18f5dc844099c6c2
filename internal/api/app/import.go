package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/usecase/importer"
)

type ImportAPI struct {
	svc      *importer.Service
	projects ports.ProjectRepository
}

func NewImportAPI(svc *importer.Service, projects ports.ProjectRepository) *ImportAPI {
	return &ImportAPI{svc: svc, projects: projects}
}

type ImportRequest struct {
	ProjectID int64  `json:"project_id"`
	Path      string `json:"path"`
	// Name is stored as the file path; defaults to the base name of Path.
	Name   string `json:"name"`
	Format string `json:"format"`
	Locale string `json:"locale"`
	Prune  bool   `json:"prune"`
}

// ImportFile reads a catalog from disk into the store and records its
// locale on the project.
func (a *ImportAPI) ImportFile(ctx context.Context, req ImportRequest) (importer.ImportResult, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return importer.ImportResult{}, err
	}
	name := req.Name
	if name == "" {
		name = filepath.Base(req.Path)
	}
	res, err := a.svc.Import(ctx, importer.ImportArgs{
		ProjectID: req.ProjectID,
		Filename:  name,
		Format:    req.Format,
		Locale:    req.Locale,
		Content:   data,
		Prune:     req.Prune,
	})
	if err != nil {
		return res, fmt.Errorf("import %s: %w", req.Path, err)
	}
	if res.Locale != "" {
		if err := a.projects.AddLocale(ctx, &domain.ProjectLocale{ProjectID: req.ProjectID, Locale: res.Locale}); err != nil {
			return res, err
		}
	}
	return res, nil
}
