package qm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/ts"
)

func russianCatalog() *ts.Catalog {
	c := ts.New("ru_RU")
	state := c.EnsureContext("MultiplayerState")
	state.Messages = []*ts.Message{
		{
			Numerus: true,
			Source:  "%n member(s)",
			Translation: ts.Translation{Forms: []string{
				"%n участник", "%n участника", "%n участников",
			}},
		},
		{Source: "Leave Room", Comment: "menu", Translation: ts.Translation{Text: "Покинуть комнату"}},
		{Source: "Leave Room", Comment: "button", Translation: ts.Translation{Text: "Выйти"}},
		{Source: "Kick", Translation: ts.Translation{Type: ts.StatusUnfinished}},
		{Source: "Ban", Translation: ts.Translation{Type: ts.StatusUnfinished, Text: "Забанить"}},
		{Source: "Old", Translation: ts.Translation{Type: ts.StatusVanished, Text: "Старое"}},
		{Source: "Older", Translation: ts.Translation{Type: ts.StatusObsolete, Text: "Старее"}},
	}
	c.EnsureContext("GameList").Messages = []*ts.Message{
		{Source: "Leave Room", Translation: ts.Translation{Text: "Покинуть"}},
	}
	return c
}

func compileOpen(t *testing.T, c *ts.Catalog, opts Options) (*Translator, Result) {
	t.Helper()
	data, res, err := Compile(c, opts)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, magic[:]))
	tr, err := Open(data)
	require.NoError(t, err)
	return tr, res
}

func TestElfHash(t *testing.T) {
	assert.Equal(t, uint32(1), elfHash(""))
	assert.Equal(t, uint32(0x61), elfHash("a"))
	assert.Equal(t, uint32(0x672), elfHash("ab"))
	assert.Equal(t, elfHash("Leave Roommenu"), elfHash("Leave Room", "menu"))
}

func TestCompileCounts(t *testing.T) {
	_, res := compileOpen(t, russianCatalog(), Options{})
	assert.Equal(t, Result{Finished: 4, Unfinished: 1, Untranslated: 1}, res)
	assert.Equal(t, 5, res.Generated())

	_, res = compileOpen(t, russianCatalog(), Options{IgnoreUnfinished: true})
	assert.Equal(t, Result{Finished: 4, Untranslated: 1, Skipped: 1}, res)
}

func TestCompileCountsDuplicatesOnce(t *testing.T) {
	c := ts.New("de_DE")
	c.EnsureContext("Main").Messages = []*ts.Message{
		{Source: "Open", Translation: ts.Translation{Text: "Öffnen"}},
		{Source: "Open", Translation: ts.Translation{Text: "Aufmachen"}},
		{Source: "Quit", Translation: ts.Translation{Type: ts.StatusUnfinished, Text: "Beenden"}},
		{Source: "Quit", Translation: ts.Translation{Type: ts.StatusUnfinished, Text: "Schließen"}},
	}
	tr, res := compileOpen(t, c, Options{})
	assert.Equal(t, Result{Finished: 1, Unfinished: 1, Duplicates: 2}, res)
	assert.Equal(t, 2, res.Generated())
	s, ok := tr.Translate("Main", "Open", "", -1)
	require.True(t, ok)
	assert.Equal(t, "Öffnen", s)
}

func TestTranslate(t *testing.T) {
	tr, _ := compileOpen(t, russianCatalog(), Options{})
	assert.Equal(t, "ru_RU", tr.Language())

	s, ok := tr.Translate("MultiplayerState", "Leave Room", "menu", -1)
	require.True(t, ok)
	assert.Equal(t, "Покинуть комнату", s)

	s, ok = tr.Translate("MultiplayerState", "Leave Room", "button", -1)
	require.True(t, ok)
	assert.Equal(t, "Выйти", s)

	s, ok = tr.Translate("GameList", "Leave Room", "", -1)
	require.True(t, ok)
	assert.Equal(t, "Покинуть", s)

	s, ok = tr.Translate("MultiplayerState", "Ban", "", -1)
	require.True(t, ok)
	assert.Equal(t, "Забанить", s)

	for _, src := range []string{"Kick", "Old", "Older", "Missing"} {
		_, ok = tr.Translate("MultiplayerState", src, "", -1)
		assert.False(t, ok, src)
	}
	_, ok = tr.Translate("Nowhere", "Leave Room", "menu", -1)
	assert.False(t, ok)
}

func TestTranslateCommentFallback(t *testing.T) {
	tr, _ := compileOpen(t, russianCatalog(), Options{})
	s, ok := tr.Translate("GameList", "Leave Room", "tooltip", -1)
	require.True(t, ok)
	assert.Equal(t, "Покинуть", s)
}

func TestTranslateNumerus(t *testing.T) {
	tr, _ := compileOpen(t, russianCatalog(), Options{})
	require.NotEmpty(t, tr.Rules())
	cases := map[int]string{
		1:   "%n участник",
		21:  "%n участник",
		3:   "%n участника",
		5:   "%n участников",
		11:  "%n участников",
		112: "%n участников",
	}
	for n, want := range cases {
		s, ok := tr.Translate("MultiplayerState", "%n member(s)", "", n)
		require.True(t, ok)
		assert.Equal(t, want, s, "n=%d", n)
	}
	s, ok := tr.Translate("MultiplayerState", "%n member(s)", "", -1)
	require.True(t, ok)
	assert.Equal(t, "%n участник", s)
}

func TestStrippedStillTranslates(t *testing.T) {
	full, _, err := Compile(russianCatalog(), Options{})
	require.NoError(t, err)
	stripped, _, err := Compile(russianCatalog(), Options{Stripped: true})
	require.NoError(t, err)
	assert.Less(t, len(stripped), len(full))

	tr, err := Open(stripped)
	require.NoError(t, err)
	s, ok := tr.Translate("MultiplayerState", "Leave Room", "button", -1)
	require.True(t, ok)
	assert.Equal(t, "Выйти", s)
	s, ok = tr.Translate("GameList", "Leave Room", "", -1)
	require.True(t, ok)
	assert.Equal(t, "Покинуть", s)
}

func TestIDBased(t *testing.T) {
	c := ts.New("de_DE")
	c.EnsureContext("").Messages = []*ts.Message{
		{ID: "menu.file", Source: "File", Translation: ts.Translation{Text: "Datei"}},
		{Source: "No id", Translation: ts.Translation{Text: "Keine"}},
	}
	tr, res := compileOpen(t, c, Options{IDBased: true})
	assert.Equal(t, Result{Finished: 1, NoID: 1}, res)
	s, ok := tr.Translate("", "menu.file", "", -1)
	require.True(t, ok)
	assert.Equal(t, "Datei", s)
}

func TestDependencies(t *testing.T) {
	tr, _ := compileOpen(t, ts.New("fr"), Options{Dependencies: []string{"qt_fr.qm", "qtbase_fr.qm"}})
	assert.Equal(t, []string{"qt_fr.qm", "qtbase_fr.qm"}, tr.Dependencies())
	assert.True(t, tr.Empty())
	_, ok := tr.Translate("", "anything", "", -1)
	assert.False(t, ok)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open([]byte("<?xml version"))
	assert.ErrorIs(t, err, ErrBadMagic)
	_, err = Open(nil)
	assert.ErrorIs(t, err, ErrBadMagic)

	data, _, err := Compile(russianCatalog(), Options{})
	require.NoError(t, err)
	_, err = Open(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = Open(data[:len(magic)+2])
	assert.ErrorIs(t, err, ErrTruncated)

	assert.True(t, IsQM(data))
	assert.False(t, IsQM(data[:4]))
}

func TestDecompile(t *testing.T) {
	tr, _ := compileOpen(t, russianCatalog(), Options{})
	c, err := Decompile(tr)
	require.NoError(t, err)
	assert.Equal(t, "ru_RU", c.Language)
	assert.Equal(t, 5, c.Len())

	m := c.Lookup("MultiplayerState", "%n member(s)", "")
	require.NotNil(t, m)
	assert.True(t, m.Numerus)
	assert.Len(t, m.Translation.Forms, 3)

	m = c.Lookup("MultiplayerState", "Leave Room", "button")
	require.NotNil(t, m)
	assert.Equal(t, "Выйти", m.Translation.Text)
	assert.Equal(t, ts.StatusFinished, m.Translation.Type)
}
