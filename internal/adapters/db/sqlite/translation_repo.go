package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"linguist/internal/domain"
)

type TranslationRepo struct{ *Repo }

func NewTranslationRepo(db *sql.DB) *TranslationRepo { return &TranslationRepo{NewRepo(db)} }

func formsJSON(forms []string) string {
	if len(forms) == 0 {
		return ""
	}
	b, _ := json.Marshal(forms)
	return string(b)
}

func (r *TranslationRepo) upsert(ctx context.Context, db runner, t *domain.Translation) error {
	ts := now()
	q := r.SQ.Insert("translations").Columns("unit_id", "locale", "text", "forms_json", "status", "provider_id", "created_at", "updated_at").
		Values(t.UnitID, t.Locale, t.Text, formsJSON(t.Forms), t.Status, t.ProviderID, ts, ts).
		Suffix("ON CONFLICT(unit_id, locale) DO UPDATE SET text=excluded.text, forms_json=excluded.forms_json, status=excluded.status, " +
			"provider_id=excluded.provider_id, updated_at=excluded.updated_at")
	if _, err := r.exec(ctx, db, q); err != nil {
		return fmt.Errorf("upsert translation of unit %d (%s): %w", t.UnitID, t.Locale, err)
	}
	return nil
}

func (r *TranslationRepo) Upsert(ctx context.Context, t *domain.Translation) error {
	return r.upsert(ctx, r.DB, t)
}

// UpsertBatch writes all translations in one transaction.
func (r *TranslationRepo) UpsertBatch(ctx context.Context, ts []*domain.Translation) error {
	if len(ts) == 0 {
		return nil
	}
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, t := range ts {
			if err := r.upsert(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

var translationColumns = []string{"t.id", "t.unit_id", "t.locale", "t.text", "t.forms_json", "t.status", "t.provider_id", "t.created_at", "t.updated_at"}

func scanTranslation(s interface{ Scan(...any) error }) (*domain.Translation, error) {
	var t domain.Translation
	var forms, created, updated string
	var prov sql.NullInt64
	if err := s.Scan(&t.ID, &t.UnitID, &t.Locale, &t.Text, &forms, &t.Status, &prov, &created, &updated); err != nil {
		return nil, err
	}
	if forms != "" {
		if err := json.Unmarshal([]byte(forms), &t.Forms); err != nil {
			return nil, fmt.Errorf("forms of translation %d: %w", t.ID, err)
		}
	}
	t.ProviderID = nullInt(prov)
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	return &t, nil
}

// Get returns nil, nil when the unit has no translation for locale.
func (r *TranslationRepo) Get(ctx context.Context, unitID int64, locale string) (*domain.Translation, error) {
	row, err := r.queryRow(ctx, r.SQ.Select(translationColumns...).From("translations t").
		Where(sq.Eq{"t.unit_id": unitID, "t.locale": locale}).Limit(1))
	if err != nil {
		return nil, err
	}
	t, err := scanTranslation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *TranslationRepo) ListByFileLocale(ctx context.Context, fileID int64, locale string) ([]*domain.Translation, error) {
	rows, err := r.query(ctx, r.SQ.Select(translationColumns...).
		From("translations t").Join("units u ON u.id = t.unit_id").
		Where(sq.Eq{"u.file_id": fileID, "t.locale": locale}).OrderBy("u.position", "u.id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Translation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountByStatus tallies the translations of a file for locale.
func (r *TranslationRepo) CountByStatus(ctx context.Context, fileID int64, locale string) (map[string]int, error) {
	rows, err := r.query(ctx, r.SQ.Select("t.status", "COUNT(*)").
		From("translations t").Join("units u ON u.id = t.unit_id").
		Where(sq.Eq{"u.file_id": fileID, "t.locale": locale}).GroupBy("t.status"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
