package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "linguist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedFile(t *testing.T, s *Store) (*domain.Project, *domain.File) {
	t.Helper()
	ctx := context.Background()
	p, err := s.Projects.Ensure(ctx, "citra", "en")
	require.NoError(t, err)
	f := &domain.File{ProjectID: p.ID, Path: "dist/languages/ru_RU.ts", Format: "ts", Locale: "ru_RU", Hash: "2d711642b726b04401627ca9fbac32f5c8530fb1903cc4db02258717921a4881"}
	require.NoError(t, s.Files.Create(ctx, f))
	return p, f
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linguist.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	var n int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestProjectEnsure(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a, err := s.Projects.Ensure(ctx, "citra", "en")
	require.NoError(t, err)
	b, err := s.Projects.Ensure(ctx, "citra", "de")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "en", b.SourceLang)

	require.NoError(t, s.Projects.AddLocale(ctx, &domain.ProjectLocale{ProjectID: a.ID, Locale: "ko_KR"}))
	require.NoError(t, s.Projects.AddLocale(ctx, &domain.ProjectLocale{ProjectID: a.ID, Locale: "ko_KR"}))
	locales, err := s.Projects.ListLocales(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, locales, 1)

	_, err = s.Projects.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesAndUnits(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	p, f := seedFile(t, s)

	found, err := s.Files.FindByPath(ctx, p.ID, f.Path, "ru_RU")
	require.NoError(t, err)
	assert.Equal(t, f.ID, found.ID)
	_, err = s.Files.FindByPath(ctx, p.ID, f.Path, "de_DE")
	assert.ErrorIs(t, err, ErrNotFound)

	units := []*domain.Unit{
		{FileID: f.ID, Key: "b", Context: "Main", SourceText: "Second", Position: 1},
		{FileID: f.ID, Key: "a", Context: "Main", SourceText: "%n file(s)", Numerus: true, Comment: "status", Position: 0},
	}
	require.NoError(t, s.Units.UpsertBatch(ctx, units))
	for _, u := range units {
		assert.NotZero(t, u.ID)
	}

	units[0].SourceText = "Second, edited"
	require.NoError(t, s.Units.UpsertBatch(ctx, units[:1]))

	list, err := s.Units.ListByFile(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Key)
	assert.True(t, list[0].Numerus)
	assert.Equal(t, "status", list[0].Comment)
	assert.Equal(t, "Second, edited", list[1].SourceText)
	assert.Equal(t, units[0].ID, list[1].ID)

	n, err := s.Units.DeleteExcept(ctx, f.ID, []string{"a"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.Files.Delete(ctx, f.ID))
	list, err = s.Units.ListByFile(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUnitsLargeBatch(t *testing.T) {
	s := openStore(t)
	_, f := seedFile(t, s)
	var units []*domain.Unit
	for i := 0; i < 2*unitBatch+7; i++ {
		units = append(units, &domain.Unit{FileID: f.ID, Key: fmt.Sprintf("k%04d", i), SourceText: "x", Position: i})
	}
	require.NoError(t, s.Units.UpsertBatch(context.Background(), units))
	list, err := s.Units.ListByFile(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(units))
}

func TestTranslations(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	_, f := seedFile(t, s)
	units := []*domain.Unit{
		{FileID: f.ID, Key: "n", SourceText: "%n member(s)", Numerus: true},
		{FileID: f.ID, Key: "s", SourceText: "Leave Room", Position: 1},
	}
	require.NoError(t, s.Units.UpsertBatch(ctx, units))

	require.NoError(t, s.Translations.UpsertBatch(ctx, []*domain.Translation{
		{UnitID: units[0].ID, Locale: "ru_RU", Forms: []string{"%n участник", "%n участника", "%n участников"}, Status: domain.StatusFinished},
		{UnitID: units[1].ID, Locale: "ru_RU", Status: domain.StatusUnfinished},
	}))

	got, err := s.Translations.Get(ctx, units[0].ID, "ru_RU")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Forms, 3)

	none, err := s.Translations.Get(ctx, units[0].ID, "de_DE")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, s.Translations.Upsert(ctx, &domain.Translation{UnitID: units[1].ID, Locale: "ru_RU", Text: "Покинуть", Status: domain.StatusUnfinished}))
	list, err := s.Translations.ListByFileLocale(ctx, f.ID, "ru_RU")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Покинуть", list[1].Text)

	counts, err := s.Translations.CountByStatus(ctx, f.ID, "ru_RU")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{domain.StatusFinished: 1, domain.StatusUnfinished: 1}, counts)
}

func TestJobs(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	id, err := s.Jobs.Create(ctx, &domain.Job{Type: domain.JobTranslateFile, Status: domain.JobQueued, Total: 2})
	require.NoError(t, err)
	loc := "de"
	itemID, err := s.Jobs.AddItem(ctx, &domain.JobItem{JobID: id, Locale: &loc, Status: domain.JobRunning})
	require.NoError(t, err)
	require.NoError(t, s.Jobs.UpdateItem(ctx, itemID, domain.JobFailed, "timeout"))
	require.NoError(t, s.Jobs.AddLog(ctx, &domain.JobLog{JobID: id, Level: "info", Message: "first"}))
	require.NoError(t, s.Jobs.AddLog(ctx, &domain.JobLog{JobID: id, Level: "info", Message: "second"}))
	require.NoError(t, s.Jobs.UpdateProgress(ctx, id, 2, 2, domain.JobDone))

	j, err := s.Jobs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobDone, j.Status)
	assert.Nil(t, j.ProjectID)

	items, err := s.Jobs.ListItems(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "timeout", items[0].Error)
	assert.Equal(t, "de", *items[0].Locale)

	logs, err := s.Jobs.ListLogs(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "first", logs[0].Message)

	require.NoError(t, s.Jobs.Delete(ctx, id))
	j, err = s.Jobs.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, j)
}

func TestProvidersTemplatesCacheSettings(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p := &domain.Provider{Type: "ollama", Name: "local", BaseURL: "http://localhost:11434", Model: "qwen2.5"}
	require.NoError(t, s.Providers.Create(ctx, p))
	byName, err := s.Providers.FindByName(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)
	require.NoError(t, s.Providers.SaveModelCache(ctx, p.ID, []string{"b", "a"}))
	models, err := s.Providers.ListModelCache(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "a", models[0].Name)

	require.NoError(t, s.Templates.Upsert(ctx, &domain.Template{Scope: domain.ScopeGlobal, Type: domain.TemplateTranslate, Role: domain.RoleSystem, Body: "global"}))
	tpl, err := s.Templates.GetEffective(ctx, domain.ScopeProvider, &p.ID, domain.TemplateTranslate, domain.RoleSystem)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Equal(t, "global", tpl.Body)
	require.NoError(t, s.Templates.Upsert(ctx, &domain.Template{Scope: domain.ScopeProvider, RefID: &p.ID, Type: domain.TemplateTranslate, Role: domain.RoleSystem, Body: "mine"}))
	tpl, err = s.Templates.GetEffective(ctx, domain.ScopeProvider, &p.ID, domain.TemplateTranslate, domain.RoleSystem)
	require.NoError(t, err)
	assert.Equal(t, "mine", tpl.Body)
	tpl, err = s.Templates.GetEffective(ctx, domain.ScopeGlobal, nil, domain.TemplateTranslate, domain.RoleUser)
	require.NoError(t, err)
	assert.Nil(t, tpl)

	require.NoError(t, s.Cache.Put(ctx, &domain.CacheEntry{SourceText: "Open", SrcLang: "en", TgtLang: "de", Provider: "ollama", Model: "m", Translation: "Öffnen"}))
	require.NoError(t, s.Cache.Put(ctx, &domain.CacheEntry{SourceText: "Open", SrcLang: "en", TgtLang: "de", Provider: "ollama", Model: "m", Translation: "Öffne"}))
	ce, err := s.Cache.Get(ctx, "Open", "en", "de", "ollama", "m")
	require.NoError(t, err)
	assert.Equal(t, "Öffne", ce.Translation)

	v, err := s.Settings.Get(ctx, "default_provider")
	require.NoError(t, err)
	assert.Empty(t, v)
	require.NoError(t, s.Settings.Set(ctx, "default_provider", "local"))
	v, err = s.Settings.Get(ctx, "default_provider")
	require.NoError(t, err)
	assert.Equal(t, "local", v)
}
