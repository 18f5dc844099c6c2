package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"linguist/internal/ports"
)

// ErrNotFound is returned by Get methods when no row matches.
var ErrNotFound = ports.ErrNotFound

// runner is satisfied by *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo provides a base for Squirrel-based repositories.
type Repo struct {
	DB *sql.DB
	SQ sq.StatementBuilderType
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db, SQ: sq.StatementBuilder}
}

func (r *Repo) exec(ctx context.Context, db runner, b sq.Sqlizer) (sql.Result, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return db.ExecContext(ctx, sqlStr, args...)
}

func (r *Repo) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.DB.QueryContext(ctx, sqlStr, args...)
}

func (r *Repo) queryRow(ctx context.Context, b sq.Sqlizer) (*sql.Row, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.DB.QueryRowContext(ctx, sqlStr, args...), nil
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func notFound(err error, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return err
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// Store bundles the repositories over one database handle.
type Store struct {
	DB           *sql.DB
	Projects     *ProjectRepo
	Files        *FileRepo
	Units        *UnitRepo
	Translations *TranslationRepo
	Providers    *ProviderRepo
	Templates    *TemplateRepo
	Cache        *CacheRepo
	Jobs         *JobRepo
	Settings     *SettingsRepo
}

// Open initialises the database at path and builds every repository.
func Open(path string) (*Store, error) {
	db, err := Init(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		DB:           db,
		Projects:     NewProjectRepo(db),
		Files:        NewFileRepo(db),
		Units:        NewUnitRepo(db),
		Translations: NewTranslationRepo(db),
		Providers:    NewProviderRepo(db),
		Templates:    NewTemplateRepo(db),
		Cache:        NewCacheRepo(db),
		Jobs:         NewJobRepo(db),
		Settings:     NewSettingsRepo(db),
	}, nil
}

func (s *Store) Close() error { return s.DB.Close() }
