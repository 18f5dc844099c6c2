package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

type SettingsRepo struct{ *Repo }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{NewRepo(db)} }

// Get returns "" for unknown keys.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	row, err := r.queryRow(ctx, r.SQ.Select("value").From("settings").Where(sq.Eq{"key": key}))
	if err != nil {
		return "", err
	}
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.exec(ctx, r.DB, r.SQ.Insert("settings").Columns("key", "value").Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value"))
	return err
}
