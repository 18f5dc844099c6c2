package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

type ProjectAPI struct {
	repo ports.ProjectRepository
}

func NewProjectAPI(repo ports.ProjectRepository) *ProjectAPI { return &ProjectAPI{repo: repo} }

// Ensure returns the project called name, creating it when missing.
func (a *ProjectAPI) Ensure(ctx context.Context, name, sourceLang string) (*domain.Project, error) {
	if name == "" {
		return nil, errors.New("project name is required")
	}
	return a.repo.Ensure(ctx, name, sourceLang)
}

func (a *ProjectAPI) List(ctx context.Context) ([]*domain.Project, error) {
	return a.repo.List(ctx)
}

// Resolve finds a project by name, or by id when ref is numeric.
func (a *ProjectAPI) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.repo.Get(ctx, id)
	}
	list, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Name == ref {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", ref, ports.ErrNotFound)
}

// Update renames the project or changes its source language. Empty values
// keep what is stored.
func (a *ProjectAPI) Update(ctx context.Context, id int64, name, sourceLang string) (*domain.Project, error) {
	p, err := a.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		p.Name = name
	}
	if sourceLang != "" {
		p.SourceLang = sourceLang
	}
	if err := a.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *ProjectAPI) Delete(ctx context.Context, id int64) error {
	return a.repo.Delete(ctx, id)
}

func (a *ProjectAPI) AddLocale(ctx context.Context, projectID int64, locale string) (*domain.ProjectLocale, error) {
	pl := &domain.ProjectLocale{ProjectID: projectID, Locale: locale}
	if err := a.repo.AddLocale(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

func (a *ProjectAPI) ListLocales(ctx context.Context, projectID int64) ([]*domain.ProjectLocale, error) {
	return a.repo.ListLocales(ctx, projectID)
}
