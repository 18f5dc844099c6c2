package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/ts"
)

func msg(src, tr string, st ts.Status) *ts.Message {
	return &ts.Message{Source: src, Translation: ts.Translation{Type: st, Text: tr}}
}

func baseCatalog() *ts.Catalog {
	c := ts.New("ko_KR")
	c.EnsureContext("GameList").Messages = []*ts.Message{
		msg("Open Save Data Location", "세이브 데이터 위치 열기", ts.StatusFinished),
		msg("Scan Subfolders", "", ts.StatusUnfinished),
		msg("Remove Game", "게임 제거", ts.StatusFinished),
		msg("Old Entry", "옛 항목", ts.StatusVanished),
	}
	c.EnsureContext("Dropped").Messages = []*ts.Message{
		msg("Gone", "사라짐", ts.StatusFinished),
	}
	return c
}

func freshCatalog() *ts.Catalog {
	c := ts.New("")
	c.SourceLanguage = "en"
	c.EnsureContext("GameList").Messages = []*ts.Message{
		{Source: "Open Save Data Location", Locations: []ts.Location{{Filename: "game_list.cpp", Line: 300}}},
		{Source: "Scan Subfolders"},
		{Source: "Open Save Data Locations"},
		{Source: "Old Entry"},
		{Source: "Add New Game Directory"},
	}
	return c
}

func TestMergeBasic(t *testing.T) {
	out, res := Merge(baseCatalog(), freshCatalog(), Options{})
	assert.Equal(t, Result{Same: 3, New: 2, Vanished: 2}, res)
	assert.Equal(t, "ko_KR", out.Language)
	assert.Equal(t, "en", out.SourceLanguage)

	open := out.Lookup("GameList", "Open Save Data Location", "")
	require.NotNil(t, open)
	assert.Equal(t, ts.StatusFinished, open.Translation.Type)
	assert.Equal(t, "세이브 데이터 위치 열기", open.Translation.Text)
	assert.Equal(t, 300, open.Locations[0].Line)

	back := out.Lookup("GameList", "Old Entry", "")
	assert.Equal(t, ts.StatusFinished, back.Translation.Type)
	assert.Equal(t, "옛 항목", back.Translation.Text)

	added := out.Lookup("GameList", "Add New Game Directory", "")
	assert.Equal(t, ts.StatusUnfinished, added.Translation.Type)
	assert.True(t, added.Translation.Empty())

	removed := out.Lookup("GameList", "Remove Game", "")
	require.NotNil(t, removed)
	assert.Equal(t, ts.StatusVanished, removed.Translation.Type)
	gone := out.Lookup("Dropped", "Gone", "")
	require.NotNil(t, gone)
	assert.Equal(t, ts.StatusVanished, gone.Translation.Type)
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	base, fresh := baseCatalog(), freshCatalog()
	before, err := ts.EncodeBytes(base)
	require.NoError(t, err)
	Merge(base, fresh, Options{Similar: true})
	after, err := ts.EncodeBytes(base)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.True(t, fresh.Lookup("GameList", "Add New Game Directory", "").Translation.Empty())
}

func TestMergeRoundTrip(t *testing.T) {
	base := ts.New("ru_RU")
	base.EnsureContext("MainWindow").Messages = []*ts.Message{
		msg("Open", "Открыть", ts.StatusFinished),
		msg("Draft", "Черновик", ts.StatusUnfinished),
	}
	without := ts.New("")
	without.EnsureContext("MainWindow")
	with := ts.New("")
	with.EnsureContext("MainWindow").Messages = []*ts.Message{{Source: "Open"}, {Source: "Draft"}}

	gone, res := Merge(base, without, Options{})
	assert.Equal(t, Result{Vanished: 1, Obsolete: 1}, res)
	assert.Equal(t, ts.StatusVanished, gone.Lookup("MainWindow", "Open", "").Translation.Type)
	assert.Equal(t, ts.StatusObsolete, gone.Lookup("MainWindow", "Draft", "").Translation.Type)

	back, res := Merge(gone, with, Options{})
	assert.Equal(t, Result{Same: 2}, res)
	open := back.Lookup("MainWindow", "Open", "")
	assert.Equal(t, ts.StatusFinished, open.Translation.Type)
	assert.Equal(t, "Открыть", open.Translation.Text)
	assert.Equal(t, ts.StatusUnfinished, back.Lookup("MainWindow", "Draft", "").Translation.Type)
}

func TestMergeNoObsolete(t *testing.T) {
	out, res := Merge(baseCatalog(), freshCatalog(), Options{NoObsolete: true})
	assert.Equal(t, 0, res.Vanished)
	assert.Equal(t, 2, res.Dropped)
	assert.Nil(t, out.Context("Dropped"))
	assert.Nil(t, out.Lookup("GameList", "Remove Game", ""))
}

func TestMergeSimilar(t *testing.T) {
	base := ts.New("ko_KR")
	base.EnsureContext("GameList").Messages = []*ts.Message{
		msg("Open Save Data Location", "세이브 데이터 위치 열기", ts.StatusFinished),
		msg("Remove Game", "게임 제거", ts.StatusFinished),
	}
	fresh := ts.New("")
	fresh.EnsureContext("GameList").Messages = []*ts.Message{
		{Source: "Open Save Data Location..."},
		{Source: "Open Save Data Location"},
		{Source: "Remove Update"},
	}
	out, res := Merge(base, fresh, Options{Similar: true})
	assert.Equal(t, Result{Same: 1, New: 2, Vanished: 1}, res)
	assert.Equal(t, ts.StatusFinished, out.Lookup("GameList", "Open Save Data Location", "").Translation.Type)

	base.Context("GameList").Messages[0].Source = "Open Save Data Locatio"
	out, res = Merge(base, fresh, Options{Similar: true})
	assert.Equal(t, 1, res.Similar)
	m := out.Lookup("GameList", "Open Save Data Location...", "")
	if m.OldSource == "" {
		m = out.Lookup("GameList", "Open Save Data Location", "")
	}
	assert.Equal(t, "Open Save Data Locatio", m.OldSource)
	assert.Equal(t, ts.StatusUnfinished, m.Translation.Type)
	assert.Equal(t, "세이브 데이터 위치 열기", m.Translation.Text)
}

func TestMergeNumerusChange(t *testing.T) {
	base := ts.New("ru_RU")
	base.EnsureContext("State").Messages = []*ts.Message{msg("%n member(s)", "%n участник", ts.StatusFinished)}
	fresh := ts.New("")
	fresh.EnsureContext("State").Messages = []*ts.Message{{Source: "%n member(s)", Numerus: true}}
	out, _ := Merge(base, fresh, Options{})
	m := out.Lookup("State", "%n member(s)", "")
	assert.True(t, m.Numerus)
	assert.Equal(t, ts.StatusUnfinished, m.Translation.Type)
	assert.Equal(t, []string{"%n участник"}, m.Translation.Forms)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("세이브", "세이브"))
	assert.InDelta(t, 0.75, Similarity("abcd", "abce"), 1e-9)
	assert.Less(t, Similarity("Remove Game", "Remove Update"), DefaultThreshold)
}
