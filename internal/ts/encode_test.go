package ts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const encodedDoc = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="ru_RU">
<context>
    <name>ConfigureGeneral</name>
    <message>
        <location filename="../../src/citra_qt/configuration/configure_general.ui" line="22"/>
        <source>Confirm exit while emulation is running</source>
        <translation>Подтверждать выход во время эмуляции</translation>
    </message>
    <message>
        <location filename="../../src/citra_qt/configuration/configure_general.cpp" line="84"/>
        <source>Are you sure you want to &lt;b&gt;reset your settings&lt;/b&gt; and close Citra?</source>
        <comment>dialog</comment>
        <translation type="unfinished"></translation>
    </message>
    <message numerus="yes">
        <source>%n file(s) remaining</source>
        <extracomment>Shown in the status bar</extracomment>
        <translation>
            <numerusform>Остался %n файл</numerusform>
            <numerusform>Осталось %n файла</numerusform>
            <numerusform>Осталось %n файлов</numerusform>
        </translation>
    </message>
    <message>
        <source>Don&apos;t show &quot;again&quot;</source>
        <translatorcomment>checkbox</translatorcomment>
        <translation type="vanished">Больше не показывать</translation>
    </message>
</context>
</TS>
`

func sampleCatalog() *Catalog {
	c := New("ru_RU")
	ctx := c.EnsureContext("ConfigureGeneral")
	ctx.Messages = []*Message{
		{
			Locations:   []Location{{Filename: "../../src/citra_qt/configuration/configure_general.ui", Line: 22}},
			Source:      "Confirm exit while emulation is running",
			Translation: Translation{Text: "Подтверждать выход во время эмуляции"},
		},
		{
			Locations:   []Location{{Filename: "../../src/citra_qt/configuration/configure_general.cpp", Line: 84}},
			Source:      "Are you sure you want to <b>reset your settings</b> and close Citra?",
			Comment:     "dialog",
			Translation: Translation{Type: StatusUnfinished},
		},
		{
			Numerus:      true,
			Source:       "%n file(s) remaining",
			ExtraComment: "Shown in the status bar",
			Translation: Translation{Forms: []string{
				"Остался %n файл", "Осталось %n файла", "Осталось %n файлов",
			}},
		},
		{
			Source:            `Don't show "again"`,
			TranslatorComment: "checkbox",
			Translation:       Translation{Type: StatusVanished, Text: "Больше не показывать"},
		},
	}
	return c
}

func TestEncodeLayout(t *testing.T) {
	out, err := EncodeBytes(sampleCatalog())
	require.NoError(t, err)
	require.Equal(t, encodedDoc, string(out))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, name := range []string{"ko_KR.ts", "ru_RU.ts"} {
		t.Run(name, func(t *testing.T) {
			c := loadCatalog(t, name)
			out, err := EncodeBytes(c)
			require.NoError(t, err)
			again, err := DecodeBytes(out)
			require.NoError(t, err)
			require.Equal(t, c, again)
		})
	}
}

func TestEncodeControlCharacters(t *testing.T) {
	c := New("ko")
	c.EnsureContext("A").Messages = []*Message{{Source: "esc\x1b", Translation: Translation{Text: "tab\there"}}}
	out, err := EncodeBytes(c)
	require.NoError(t, err)
	require.Contains(t, string(out), `<source>esc<byte value="x1b"/></source>`)
	require.Contains(t, string(out), "<translation>tab\there</translation>")

	again, err := DecodeBytes(out)
	require.NoError(t, err)
	require.Equal(t, "esc\x1b", again.Contexts[0].Messages[0].Source)
}

func TestEncodeEmptyNumerus(t *testing.T) {
	c := New("ko")
	c.EnsureContext("A").Messages = []*Message{{Numerus: true, Source: "%n item(s)", Translation: Translation{Type: StatusUnfinished}}}
	out, err := EncodeBytes(c)
	require.NoError(t, err)
	require.Contains(t, string(out), "<translation type=\"unfinished\">\n            <numerusform></numerusform>\n        </translation>")
}

func TestEncodeKeepsCarriageReturnAndC1(t *testing.T) {
	c := New("de")
	c.EnsureContext("A").Messages = []*Message{{Source: "line\r\nnext", Translation: Translation{Text: "nel\u0085x"}}}
	out, err := EncodeBytes(c)
	require.NoError(t, err)
	require.Contains(t, string(out), "<source>line\r\nnext</source>")
	require.Contains(t, string(out), "<translation>nel\u0085x</translation>")
	require.NotContains(t, string(out), "byte value")
}
