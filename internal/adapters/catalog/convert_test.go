package catalog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

func TestRoundTripThroughItems(t *testing.T) {
	data, err := os.ReadFile("../../ts/testdata/ko_KR.ts")
	require.NoError(t, err)
	c, err := ts.DecodeBytes(data)
	require.NoError(t, err)

	res := FromCatalog(c)
	require.Len(t, res.Units, c.Len())
	assert.Equal(t, "ko_KR", res.Locale)

	scan := ts.MessageKey("GameList", "Scan Subfolders", "")
	require.Contains(t, res.Translations, scan)
	assert.Equal(t, domain.StatusUnfinished, res.Translations[scan].Status)

	back, err := ToCatalog(res.Locale, res.SourceLang, Items(res))
	require.NoError(t, err)
	want, err := ts.EncodeBytes(c)
	require.NoError(t, err)
	got, err := ts.EncodeBytes(back)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestItemWithoutTranslation(t *testing.T) {
	u := &domain.Unit{Key: "k", Context: "Ctx", SourceText: "Hello"}
	it := Item(u, nil)
	assert.Equal(t, domain.StatusUnfinished, it.Status)
	assert.Empty(t, it.Translation)
}

func TestToCatalogRejectsUnknownStatus(t *testing.T) {
	u := &domain.Unit{Key: "k", Context: "Ctx", SourceText: "Hello"}
	it := Item(u, &domain.Translation{Text: "Hallo", Status: "reviewed"})
	_, err := ToCatalog("de", "", []ports.ExportItem{it})
	require.Error(t, err)
}
