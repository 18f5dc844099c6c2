package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"linguist/internal/domain"
)

type ProjectRepo struct{ *Repo }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{NewRepo(db)} }

var projectColumns = []string{"id", "name", "source_lang", "created_at", "updated_at"}

func scanProject(s interface{ Scan(...any) error }) (*domain.Project, error) {
	var p domain.Project
	var created, updated string
	if err := s.Scan(&p.ID, &p.Name, &p.SourceLang, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	ts := now()
	res, err := r.exec(ctx, r.DB, r.SQ.Insert("projects").Columns("name", "source_lang", "created_at", "updated_at").
		Values(p.Name, p.SourceLang, ts, ts))
	if err != nil {
		return fmt.Errorf("insert project %q: %w", p.Name, err)
	}
	p.ID, _ = res.LastInsertId()
	p.CreatedAt, p.UpdatedAt = parseTime(ts), parseTime(ts)
	return nil
}

func (r *ProjectRepo) Get(ctx context.Context, id int64) (*domain.Project, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(projectColumns...).From("projects").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

// Ensure returns the project called name, creating it when missing.
func (r *ProjectRepo) Ensure(ctx context.Context, name, sourceLang string) (*domain.Project, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(projectColumns...).From("projects").Where(sq.Eq{"name": name}).OrderBy("id").Limit(1))
	if err != nil {
		return nil, err
	}
	p, err := scanProject(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	p = &domain.Project{Name: name, SourceLang: sourceLang}
	if err := r.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.query(ctx, r.SQ.Select(projectColumns...).From("projects").OrderBy("id DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	ts := now()
	if _, err := r.exec(ctx, r.DB, r.SQ.Update("projects").Set("name", p.Name).Set("source_lang", p.SourceLang).Set("updated_at", ts).
		Where(sq.Eq{"id": p.ID})); err != nil {
		return err
	}
	p.UpdatedAt = parseTime(ts)
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.exec(ctx, r.DB, r.SQ.Delete("projects").Where(sq.Eq{"id": id}))
	return err
}

// AddLocale registers a target locale; adding it twice is a no-op.
func (r *ProjectRepo) AddLocale(ctx context.Context, pl *domain.ProjectLocale) error {
	created := time.Now().UTC()
	res, err := r.exec(ctx, r.DB, r.SQ.Insert("project_locales").Columns("project_id", "locale", "created_at").
		Values(pl.ProjectID, pl.Locale, created.Format(time.RFC3339)).
		Suffix("ON CONFLICT(project_id, locale) DO NOTHING"))
	if err != nil {
		return err
	}
	pl.ID, _ = res.LastInsertId()
	pl.CreatedAt = created
	return nil
}

func (r *ProjectRepo) ListLocales(ctx context.Context, projectID int64) ([]*domain.ProjectLocale, error) {
	rows, err := r.query(ctx, r.SQ.Select("id", "project_id", "locale", "created_at").From("project_locales").
		Where(sq.Eq{"project_id": projectID}).OrderBy("locale"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ProjectLocale
	for rows.Next() {
		var pl domain.ProjectLocale
		var created string
		if err := rows.Scan(&pl.ID, &pl.ProjectID, &pl.Locale, &created); err != nil {
			return nil, err
		}
		pl.CreatedAt = parseTime(created)
		out = append(out, &pl)
	}
	return out, rows.Err()
}
