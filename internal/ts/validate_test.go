package ts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(r *Report) []string {
	var out []string
	for _, is := range r.Issues {
		out = append(out, is.Code)
	}
	return out
}

func TestValidateCleanCatalogs(t *testing.T) {
	r := Validate(loadCatalog(t, "ru_RU.ts"))
	require.NoError(t, r.Err())
	require.Empty(t, r.Issues)
}

func TestValidateKoreanSample(t *testing.T) {
	r := Validate(loadCatalog(t, "ko_KR.ts"))
	require.NoError(t, r.Err())
	// the single Korean numerus form matches the language and unfinished
	// or vanished messages are not quality checked
	assert.Empty(t, r.Issues)
}

func TestValidateStructuralErrors(t *testing.T) {
	c := New("ru_RU")
	a := &Context{Name: "About", Messages: []*Message{
		{Source: "", Translation: Translation{Text: "x"}},
		{Source: "OK", Translation: Translation{Text: "ОК"}},
		{Source: "OK", Translation: Translation{Text: "Хорошо"}},
		{Source: "OK", Comment: "other", Translation: Translation{Text: "ОК"}},
	}}
	c.Contexts = []*Context{a, {Name: "About"}}

	r := Validate(c)
	require.Error(t, r.Err())
	require.Equal(t, 3, r.Count(SeverityError))
	assert.ElementsMatch(t, []string{CodeEmptySource, CodeDuplicateMessage, CodeDuplicateContext}, codes(r))
}

func TestValidateVanishedDuplicatesAllowed(t *testing.T) {
	c := New("ko")
	c.EnsureContext("A").Messages = []*Message{
		{Source: "Open", Translation: Translation{Text: "열기"}},
		{Source: "Open", Translation: Translation{Type: StatusVanished, Text: "열기"}},
	}
	require.NoError(t, Validate(c).Err())
}

func TestValidateIDBasedMessages(t *testing.T) {
	c := New("ru_RU")
	c.EnsureContext("").Messages = []*Message{
		{ID: "menu.open", Translation: Translation{Text: "Открыть"}},
		{ID: "menu.close", Translation: Translation{Text: "Закрыть"}},
	}
	r := Validate(c)
	require.NoError(t, r.Err())
	assert.Empty(t, r.Issues)

	c.Contexts[0].Messages = append(c.Contexts[0].Messages, &Message{ID: "menu.open", Translation: Translation{Text: "Открыть"}})
	r = Validate(c)
	require.Error(t, r.Err())
	assert.Equal(t, []string{CodeDuplicateMessage}, codes(r))
}

func TestValidateQualityChecks(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		code string
	}{
		{"empty finished", &Message{Source: "Play"}, CodeEmptyTranslation},
		{"missing placeholder", &Message{Source: "Error %1", Translation: Translation{Text: "Ошибка"}}, CodePlaceholderMismatch},
		{"extra placeholder", &Message{Source: "Error", Translation: Translation{Text: "Ошибка %2"}}, CodePlaceholderMismatch},
		{"localized placeholder", &Message{Source: "Size %L1", Translation: Translation{Text: "Размер %1"}}, CodePlaceholderMismatch},
		{"accelerator", &Message{Source: "&File", Translation: Translation{Text: "Файл"}}, CodeAccelerator},
		{"colon", &Message{Source: "Region:", Translation: Translation{Text: "Регион"}}, CodePunctuation},
		{"ellipsis", &Message{Source: "Load File...", Translation: Translation{Text: "Загрузить файл"}}, CodePunctuation},
		{"full stop", &Message{Source: "Done.", Translation: Translation{Text: "Готово"}}, CodePunctuation},
		{"extra full stop", &Message{Source: "Done", Translation: Translation{Text: "Готово."}}, CodePunctuation},
		{"lost numerus placeholder", &Message{Source: "%Ln file(s)", Translation: Translation{Text: "файлы"}}, CodePlaceholderMismatch},
		{"trailing space", &Message{Source: "Speed ", Translation: Translation{Text: "Скорость"}}, CodePunctuation},
		{"numerus forms", &Message{Numerus: true, Source: "%n day(s)", Translation: Translation{Forms: []string{"%n день", "%n дня"}}}, CodeNumerusForms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("ru_RU")
			c.EnsureContext("Ctx").Messages = []*Message{tt.msg}
			r := Validate(c)
			require.NoError(t, r.Err())
			require.Contains(t, codes(r), tt.code)
		})
	}
}

func TestValidateAcceptedVariants(t *testing.T) {
	tests := []*Message{
		{Source: "&&Escaped", Translation: Translation{Text: "Экранировано"}},
		{Source: "Load...", Translation: Translation{Text: "Загрузить…"}},
		{Source: "&Open", Translation: Translation{Text: "열기(&O)"}},
		{Source: "Name:", Translation: Translation{Text: "名前："}},
		{Source: "Saved.", Translation: Translation{Text: "保存しました。"}},
		{Source: "Wait...", Translation: Translation{Text: "Подождите…"}},
		{Numerus: true, Source: "%Ln file(s)", Translation: Translation{Forms: []string{"один файл", "%Ln файла", "%Ln файлов"}}},
		{Numerus: true, Source: "%n day(s)", Translation: Translation{Forms: []string{"один день", "%n дня", "%n дней"}}},
	}
	for _, m := range tests {
		t.Run(m.Source, func(t *testing.T) {
			c := New("ru_RU")
			c.EnsureContext("Ctx").Messages = []*Message{m}
			assert.Empty(t, Validate(c).Issues)
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	c := &Catalog{Version: "2.1"}
	require.Equal(t, []string{CodeLanguage}, codes(Validate(c)))

	c.Language = "not a language!"
	require.Equal(t, []string{CodeLanguage}, codes(Validate(c)))
}

func TestPlaceholders(t *testing.T) {
	require.Equal(t, []string{"%1", "%2", "%L3", "%n"}, Placeholders("%2 of %1, %n and %L3 and %1 again, 100%"))
	require.Equal(t, []string{"%L1", "%Ln"}, Placeholders("%Ln file(s) in %L1"))
	require.Nil(t, Placeholders("no args"))
}

func TestIssueError(t *testing.T) {
	is := Issue{Context: "Main", Location: "main.cpp:3", Message: "boom"}
	require.Equal(t, "main.cpp:3: [Main] boom", is.Error())
}
