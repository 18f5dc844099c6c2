package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"linguist/internal/domain"
)

type FileRepo struct{ *Repo }
type UnitRepo struct{ *Repo }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{NewRepo(db)} }
func NewUnitRepo(db *sql.DB) *UnitRepo { return &UnitRepo{NewRepo(db)} }

var fileColumns = []string{"id", "project_id", "path", "format", "locale", "source_lang", "hash", "created_at"}

func scanFile(s interface{ Scan(...any) error }) (*domain.File, error) {
	var f domain.File
	var created string
	if err := s.Scan(&f.ID, &f.ProjectID, &f.Path, &f.Format, &f.Locale, &f.SourceLang, &f.Hash, &created); err != nil {
		return nil, err
	}
	f.CreatedAt = parseTime(created)
	return &f, nil
}

func (r *FileRepo) Create(ctx context.Context, f *domain.File) error {
	created := now()
	res, err := r.exec(ctx, r.DB, r.SQ.Insert("files").
		Columns("project_id", "path", "format", "locale", "source_lang", "hash", "created_at").
		Values(f.ProjectID, f.Path, f.Format, f.Locale, f.SourceLang, f.Hash, created))
	if err != nil {
		return fmt.Errorf("insert file %s: %w", f.Path, err)
	}
	f.ID, _ = res.LastInsertId()
	f.CreatedAt = parseTime(created)
	return nil
}

// Update rewrites the mutable attributes of an imported file.
func (r *FileRepo) Update(ctx context.Context, f *domain.File) error {
	_, err := r.exec(ctx, r.DB, r.SQ.Update("files").
		Set("format", f.Format).Set("locale", f.Locale).Set("source_lang", f.SourceLang).Set("hash", f.Hash).
		Where(sq.Eq{"id": f.ID}))
	return err
}

func (r *FileRepo) Get(ctx context.Context, id int64) (*domain.File, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(fileColumns...).From("files").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	f, err := scanFile(row)
	if err != nil {
		return nil, notFound(err, "file", id)
	}
	return f, nil
}

// FindByPath returns the file imported from path for locale, or ErrNotFound.
func (r *FileRepo) FindByPath(ctx context.Context, projectID int64, path, locale string) (*domain.File, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(fileColumns...).From("files").
		Where(sq.Eq{"project_id": projectID, "path": path, "locale": locale}).OrderBy("id DESC").Limit(1))
	if err != nil {
		return nil, err
	}
	f, err := scanFile(row)
	if err != nil {
		return nil, notFound(err, "file", path)
	}
	return f, nil
}

func (r *FileRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.File, error) {
	rows, err := r.query(ctx, r.SQ.Select(fileColumns...).From("files").Where(sq.Eq{"project_id": projectID}).OrderBy("id DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FileRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.exec(ctx, r.DB, r.SQ.Delete("files").Where(sq.Eq{"id": id}))
	return err
}

// unitBatch keeps a multi-row insert under sqlite's bound variable limit.
const unitBatch = 200

// UpsertBatch inserts or updates units by (file_id, key) in one transaction
// and fills in their ids.
func (r *UnitRepo) UpsertBatch(ctx context.Context, units []*domain.Unit) error {
	if len(units) == 0 {
		return nil
	}
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for start := 0; start < len(units); start += unitBatch {
			end := min(start+unitBatch, len(units))
			ib := r.SQ.Insert("units").Columns("file_id", "key", "context", "source_text", "comment", "numerus", "position", "metadata_json")
			for _, u := range units[start:end] {
				ib = ib.Values(u.FileID, u.Key, u.Context, u.SourceText, u.Comment, u.Numerus, u.Position, u.MetadataRaw)
			}
			ib = ib.Suffix("ON CONFLICT(file_id, key) DO UPDATE SET context=excluded.context, source_text=excluded.source_text, " +
				"comment=excluded.comment, numerus=excluded.numerus, position=excluded.position, metadata_json=excluded.metadata_json")
			if _, err := r.exec(ctx, tx, ib); err != nil {
				return fmt.Errorf("upsert units: %w", err)
			}
		}
		for _, u := range units {
			sqlStr, args, err := r.SQ.Select("id").From("units").Where(sq.Eq{"file_id": u.FileID, "key": u.Key}).ToSql()
			if err != nil {
				return err
			}
			if err := tx.QueryRowContext(ctx, sqlStr, args...).Scan(&u.ID); err != nil {
				return fmt.Errorf("unit id for %s: %w", u.Key, err)
			}
		}
		return nil
	})
}

// DeleteExcept removes the units of a file whose key is not in keep.
func (r *UnitRepo) DeleteExcept(ctx context.Context, fileID int64, keep []string) (int64, error) {
	del := r.SQ.Delete("units").Where(sq.Eq{"file_id": fileID})
	if len(keep) > 0 {
		del = del.Where(sq.NotEq{"key": keep})
	}
	res, err := r.exec(ctx, r.DB, del)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var unitColumns = []string{"id", "file_id", "key", "context", "source_text", "comment", "numerus", "position", "metadata_json", "created_at"}

func scanUnit(s interface{ Scan(...any) error }) (*domain.Unit, error) {
	var u domain.Unit
	var created string
	if err := s.Scan(&u.ID, &u.FileID, &u.Key, &u.Context, &u.SourceText, &u.Comment, &u.Numerus, &u.Position, &u.MetadataRaw, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// ListByFile returns the units of a file in document order.
func (r *UnitRepo) ListByFile(ctx context.Context, fileID int64) ([]*domain.Unit, error) {
	rows, err := r.query(ctx, r.SQ.Select(unitColumns...).From("units").Where(sq.Eq{"file_id": fileID}).OrderBy("position", "id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UnitRepo) Get(ctx context.Context, id int64) (*domain.Unit, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(unitColumns...).From("units").Where(sq.Eq{"id": id}).Limit(1))
	if err != nil {
		return nil, err
	}
	u, err := scanUnit(row)
	if err != nil {
		return nil, notFound(err, "unit", id)
	}
	return u, nil
}
