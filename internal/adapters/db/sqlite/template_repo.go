package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"linguist/internal/domain"
)

type TemplateRepo struct{ *Repo }

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{NewRepo(db)} }

// GetEffective resolves the provider scope, then global. A provider row with
// an empty body defers to global. It returns nil, nil when only the builtin
// prompt applies.
func (r *TemplateRepo) GetEffective(ctx context.Context, scope string, refID *int64, typ, role string) (*domain.Template, error) {
	if scope == domain.ScopeProvider && refID != nil {
		t, err := r.getOne(ctx, scope, refID, typ, role)
		if err != nil || (t != nil && t.Body != "") {
			return t, err
		}
	}
	return r.getOne(ctx, domain.ScopeGlobal, nil, typ, role)
}

func (r *TemplateRepo) getOne(ctx context.Context, scope string, refID *int64, typ, role string) (*domain.Template, error) {
	b := r.SQ.Select("id", "scope", "ref_id", "type", "role", "body", "updated_at").From("templates").
		Where(sq.Eq{"scope": scope, "type": typ, "role": role}).
		OrderBy("id DESC").Limit(1)
	if refID != nil {
		b = b.Where(sq.Eq{"ref_id": *refID})
	} else {
		b = b.Where("ref_id IS NULL")
	}
	row, err := r.queryRow(ctx, b)
	if err != nil {
		return nil, err
	}
	var t domain.Template
	var ref sql.NullInt64
	var updated string
	if err := row.Scan(&t.ID, &t.Scope, &ref, &t.Type, &t.Role, &t.Body, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.RefID = nullInt(ref)
	t.UpdatedAt = parseTime(updated)
	return &t, nil
}

// Upsert stores a new revision; the newest row per scope wins on lookup.
func (r *TemplateRepo) Upsert(ctx context.Context, t *domain.Template) error {
	res, err := r.exec(ctx, r.DB, r.SQ.Insert("templates").Columns("scope", "ref_id", "type", "role", "body", "updated_at").
		Values(t.Scope, t.RefID, t.Type, t.Role, t.Body, now()))
	if err != nil {
		return err
	}
	t.ID, _ = res.LastInsertId()
	return nil
}
