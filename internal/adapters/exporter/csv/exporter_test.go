package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/adapters/catalog"
	csvparser "linguist/internal/adapters/parser/csv"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

func TestExportParseRoundTrip(t *testing.T) {
	items := []ports.ExportItem{
		{Key: "a1", Context: "Main", SourceText: "Open, file", Translation: "Öffnen", Status: domain.StatusFinished},
		{Key: "b2", Context: "Main", SourceText: "Quit", Comment: "menu", Status: domain.StatusUnfinished},
		{Key: "c3", Context: "List", SourceText: "%n item(s)", Numerus: true, Forms: []string{"%n Element", "%n Elemente"}, Status: domain.StatusFinished},
		{Key: "d4", Context: "List", SourceText: "Old", Translation: "Alt", Status: domain.StatusVanished},
	}
	out, err := New().Export("de", items)
	require.NoError(t, err)
	res, err := csvparser.New().Parse(out)
	require.NoError(t, err)
	back := catalog.Items(res)
	require.Len(t, back, len(items))
	for i := range items {
		assert.Equal(t, items[i].Key, back[i].Key)
		assert.Equal(t, items[i].Comment, back[i].Comment)
		assert.Equal(t, items[i].Numerus, back[i].Numerus)
		assert.Equal(t, items[i].Status, back[i].Status)
	}
	assert.Equal(t, items[2].Forms, back[2].Forms)
}

func TestExportSeparatorHint(t *testing.T) {
	out, err := New().Export("sep:semicolon", []ports.ExportItem{{Key: "k", SourceText: "s", Translation: "t", Status: "finished"}})
	require.NoError(t, err)
	assert.Equal(t, "key;context;source;comment;numerus;translation;status\nk;;s;;;t;finished\n", string(out))
}
