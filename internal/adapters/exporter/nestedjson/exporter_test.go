package nestedjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/adapters/catalog"
	"linguist/internal/adapters/parser/nestedjson"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

func TestExportLayout(t *testing.T) {
	items := []ports.ExportItem{
		{Context: "Main", SourceText: "<b>Open</b>", Translation: "<b>Öffnen</b>", Status: domain.StatusFinished},
		{Context: "Main", SourceText: "Close", Comment: "menu", Translation: "Schließen", Status: domain.StatusFinished},
		{Context: "Main", SourceText: "Gone", Translation: "Weg", Status: domain.StatusVanished},
		{Context: "List", SourceText: "%n item(s)", Numerus: true, Status: domain.StatusUnfinished},
	}
	e := New()
	e.SourceLanguage = "en"
	out, err := e.Export("de", items)
	require.NoError(t, err)
	want := `{
  "$locale": "de",
  "$source_language": "en",
  "Main": {
    "<b>Open</b>": "<b>Öffnen</b>",
    "menu\u0004Close": "Schließen"
  },
  "List": {
    "%n item(s)": []
  }
}
`
	assert.Equal(t, want, string(out))
}

func TestExportParseRoundTrip(t *testing.T) {
	items := []ports.ExportItem{
		{Context: "Main", SourceText: "Close", Comment: "menu", Translation: "Schließen", Status: domain.StatusFinished},
		{Context: "List", SourceText: "%n item(s)", Numerus: true, Forms: []string{"%n Element", "%n Elemente"}, Status: domain.StatusFinished},
	}
	out, err := New().Export("de", items)
	require.NoError(t, err)
	res, err := nestedjson.New().Parse(out)
	require.NoError(t, err)
	back := catalog.Items(res)
	require.Len(t, back, 2)
	for i := range items {
		assert.Equal(t, items[i].Context, back[i].Context)
		assert.Equal(t, items[i].SourceText, back[i].SourceText)
		assert.Equal(t, items[i].Comment, back[i].Comment)
		assert.Equal(t, items[i].Translation, back[i].Translation)
		assert.Equal(t, items[i].Forms, back[i].Forms)
		assert.Equal(t, items[i].Status, back[i].Status)
	}
}
