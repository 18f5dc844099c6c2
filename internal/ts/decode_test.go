package ts

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T, name string) *Catalog {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	c, err := DecodeBytes(data)
	require.NoError(t, err)
	return c
}

func TestDecodeKorean(t *testing.T) {
	c := loadCatalog(t, "ko_KR.ts")

	require.Equal(t, "2.1", c.Version)
	require.Equal(t, "ko_KR", c.Language)
	require.Len(t, c.Contexts, 3)
	require.Equal(t, 8, c.Len())

	audio := c.Context("ConfigureAudio")
	require.NotNil(t, audio)
	require.Len(t, audio.Messages, 3)

	engine := audio.Find("Output Engine:", "")
	require.NotNil(t, engine)
	require.Equal(t, "출력 엔진:", engine.Translation.Text)
	require.Equal(t, StatusFinished, engine.Translation.Type)
	// relative line numbers are resolved against the previous location
	require.Equal(t, 20, engine.Locations[0].Line)
	require.Equal(t, 32, audio.Messages[2].Locations[0].Line)

	save := c.Lookup("GameList", "Open &Save Data Location", "")
	require.NotNil(t, save)
	require.Equal(t, "세이브 데이터 위치 열기(&S)", save.Translation.Text)

	scan := c.Lookup("GameList", "Scan Subfolders", "")
	require.Equal(t, StatusUnfinished, scan.Translation.Type)
	require.True(t, scan.Translation.Empty())

	results := c.Lookup("GameList", "%n result(s)", "game list filter")
	require.NotNil(t, results)
	require.True(t, results.Numerus)
	require.Equal(t, []string{"%n개 결과"}, results.Translation.Forms)
	require.Equal(t, 308, results.Locations[0].Line)

	speed := c.Lookup("MainWindow", "Speed: %1% / %2%", "")
	require.Equal(t, StatusVanished, speed.Translation.Type)
	require.Empty(t, speed.Locations)
}

func TestDecodeRussianComments(t *testing.T) {
	c := loadCatalog(t, "ru_RU.ts")
	require.Equal(t, "en", c.SourceLanguage)

	menu := c.Lookup("MultiplayerState", "Leave Room", "menu")
	button := c.Lookup("MultiplayerState", "Leave Room", "button")
	require.Equal(t, "Покинуть комнату", menu.Translation.Text)
	require.Equal(t, "Выйти", button.Translation.Text)
	require.Nil(t, c.Lookup("MultiplayerState", "Leave Room", ""))

	members := c.Lookup("MultiplayerState", "%n member(s)", "")
	require.Len(t, members.Translation.Forms, 3)
}

func TestDecodeControlBytes(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="ru">
<context>
    <name>Tabs</name>
    <message>
        <source>a<byte value="x9"/>b<byte value="x1b"/></source>
        <translation>в<byte value="27"/></translation>
    </message>
</context>
</TS>
`
	c, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)
	m := c.Contexts[0].Messages[0]
	require.Equal(t, "a\tb\x1b", m.Source)
	require.Equal(t, "в\x1b", m.Translation.Text)
}

func TestDecodeBOM(t *testing.T) {
	doc := "\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"utf-8\"?><TS version=\"2.1\" language=\"ko\"></TS>"
	c, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "ko", c.Language)
	require.Empty(t, c.Contexts)
}

func TestDecodeMalformed(t *testing.T) {
	tests := map[string]string{
		"unclosed":   `<TS version="2.1"><context><name>A</name>`,
		"bad status": `<TS><context><name>A</name><message><source>x</source><translation type="maybe">y</translation></message></context></TS>`,
		"bad line":   `<TS><context><name>A</name><message><location filename="a.cpp" line="x"/><source>x</source></message></context></TS>`,
		"wrong root": `<catalog></catalog>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(doc))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformed))
		})
	}
}
