package qm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/qm"
)

func TestExportCompiles(t *testing.T) {
	items := []ports.ExportItem{
		{Context: "Main", SourceText: "Open", Translation: "Öffnen", Status: domain.StatusFinished},
		{Context: "Main", SourceText: "Quit", Translation: "Beenden", Status: domain.StatusUnfinished},
		{Context: "Main", SourceText: "Gone", Translation: "Weg", Status: domain.StatusVanished},
	}
	e := New()
	out, err := e.Export("de_DE", items)
	require.NoError(t, err)
	tr, err := qm.Open(out)
	require.NoError(t, err)
	s, ok := tr.Translate("Main", "Open", "", -1)
	require.True(t, ok)
	assert.Equal(t, "Öffnen", s)
	_, ok = tr.Translate("Main", "Gone", "", -1)
	assert.False(t, ok)

	e.Options.IgnoreUnfinished = true
	out, err = e.Export("de_DE", items)
	require.NoError(t, err)
	tr, err = qm.Open(out)
	require.NoError(t, err)
	_, ok = tr.Translate("Main", "Quit", "", -1)
	assert.False(t, ok)
}

func TestExportRejectsBadStatus(t *testing.T) {
	_, err := New().Export("de", []ports.ExportItem{{SourceText: "x", Status: "weird"}})
	require.Error(t, err)
}
