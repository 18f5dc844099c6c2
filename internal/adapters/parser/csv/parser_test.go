package csvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/domain"
	"linguist/internal/ts"
)

func TestParseFullColumns(t *testing.T) {
	doc := "\xEF\xBB\xBFkey,context,source,comment,numerus,translation,status\n" +
		",GameList,Scan Subfolders,,,,unfinished\n" +
		"menu.leave,MultiplayerState,Leave Room,menu,,Покинуть комнату,finished\n" +
		",MultiplayerState,%n member(s),,yes,\"%n участник\x1f%n участника\x1f%n участников\",\n"
	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, res.Units, 3)

	scan := res.Units[0]
	assert.Equal(t, ts.MessageKey("GameList", "Scan Subfolders", ""), scan.Key)
	assert.Equal(t, domain.StatusUnfinished, res.Translations[scan.Key].Status)

	leave := res.Units[1]
	assert.Equal(t, "menu.leave", leave.Key)
	assert.Equal(t, "menu", leave.Comment)
	assert.Equal(t, "Покинуть комнату", res.Translations["menu.leave"].Text)

	members := res.Units[2]
	assert.True(t, members.Numerus)
	assert.Equal(t, 2, members.Position)
	tr := res.Translations[members.Key]
	assert.Equal(t, domain.StatusFinished, tr.Status)
	assert.Len(t, tr.Forms, 3)
}

func TestParseSourceOnly(t *testing.T) {
	res, err := New().Parse([]byte("key,value\ngreeting,Hello\nempty,\n"))
	require.NoError(t, err)
	require.Len(t, res.Units, 1)
	assert.Equal(t, "greeting", res.Units[0].Key)
	assert.Empty(t, res.Translations)
}

func TestParseErrors(t *testing.T) {
	_, err := New().Parse([]byte("key,translation\na,b\n"))
	require.Error(t, err)

	_, err = New().Parse([]byte("source,translation,status\nHello,Hallo,reviewed\n"))
	require.ErrorContains(t, err, "line 2")
}
