package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"linguist/internal/domain"
)

type ProviderRepo struct{ *Repo }

func NewProviderRepo(db *sql.DB) *ProviderRepo { return &ProviderRepo{NewRepo(db)} }

var providerColumns = []string{"id", "type", "name", "base_url", "model", "api_key", "options_json", "created_at", "updated_at"}

func scanProvider(s interface{ Scan(...any) error }) (*domain.Provider, error) {
	var p domain.Provider
	var created, updated string
	if err := s.Scan(&p.ID, &p.Type, &p.Name, &p.BaseURL, &p.Model, &p.APIKey, &p.OptionsRaw, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

func (r *ProviderRepo) Create(ctx context.Context, p *domain.Provider) error {
	ts := now()
	res, err := r.exec(ctx, r.DB, r.SQ.Insert("providers").
		Columns("type", "name", "base_url", "model", "api_key", "options_json", "created_at", "updated_at").
		Values(p.Type, p.Name, p.BaseURL, p.Model, p.APIKey, p.OptionsRaw, ts, ts))
	if err != nil {
		return fmt.Errorf("insert provider %q: %w", p.Name, err)
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

func (r *ProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	_, err := r.exec(ctx, r.DB, r.SQ.Update("providers").
		Set("type", p.Type).Set("name", p.Name).Set("base_url", p.BaseURL).Set("model", p.Model).
		Set("api_key", p.APIKey).Set("options_json", p.OptionsRaw).Set("updated_at", now()).
		Where(sq.Eq{"id": p.ID}))
	return err
}

func (r *ProviderRepo) Get(ctx context.Context, id int64) (*domain.Provider, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(providerColumns...).From("providers").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	p, err := scanProvider(row)
	if err != nil {
		return nil, notFound(err, "provider", id)
	}
	return p, nil
}

// FindByName looks a provider up by its display name.
func (r *ProviderRepo) FindByName(ctx context.Context, name string) (*domain.Provider, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(providerColumns...).From("providers").Where(sq.Eq{"name": name}).OrderBy("id").Limit(1))
	if err != nil {
		return nil, err
	}
	p, err := scanProvider(row)
	if err != nil {
		return nil, notFound(err, "provider", name)
	}
	return p, nil
}

func (r *ProviderRepo) List(ctx context.Context) ([]*domain.Provider, error) {
	rows, err := r.query(ctx, r.SQ.Select(providerColumns...).From("providers").OrderBy("id DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProviderRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.exec(ctx, r.DB, r.SQ.Delete("providers").Where(sq.Eq{"id": id}))
	return err
}

// SaveModelCache replaces the cached model list of a provider.
func (r *ProviderRepo) SaveModelCache(ctx context.Context, providerID int64, names []string) error {
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, r.SQ.Delete("provider_models").Where(sq.Eq{"provider_id": providerID})); err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		ib := r.SQ.Insert("provider_models").Columns("provider_id", "name")
		for _, n := range names {
			ib = ib.Values(providerID, n)
		}
		_, err := r.exec(ctx, tx, ib)
		return err
	})
}

func (r *ProviderRepo) ListModelCache(ctx context.Context, providerID int64) ([]*domain.ProviderModel, error) {
	rows, err := r.query(ctx, r.SQ.Select("id", "provider_id", "name", "updated_at").From("provider_models").
		Where(sq.Eq{"provider_id": providerID}).OrderBy("name"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ProviderModel
	for rows.Next() {
		var pm domain.ProviderModel
		var updated string
		if err := rows.Scan(&pm.ID, &pm.ProviderID, &pm.Name, &updated); err != nil {
			return nil, err
		}
		pm.UpdatedAt = parseTime(updated)
		out = append(out, &pm)
	}
	return out, rows.Err()
}
