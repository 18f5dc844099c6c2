package plural

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestForms(t *testing.T) {
	tests := []struct {
		lang  string
		forms int
	}{
		{"ko", 1},
		{"ja", 1},
		{"en", 2},
		{"de", 2},
		{"fr", 2},
		{"ru", 3},
		{"uk", 3},
		{"pl", 3},
		{"cs", 3},
		{"sl", 4},
		{"cy", 5},
		{"ar", 6},
		{"xx", 2}, // unknown falls back to English
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			tag := language.Make(tt.lang)
			require.Equal(t, tt.forms, For(tag).Forms())
		})
	}
}

func TestIndexRussian(t *testing.T) {
	r := For(language.Russian)
	cases := map[int]int{
		0: 2, 1: 0, 2: 1, 3: 1, 4: 1, 5: 2, 11: 2, 12: 2, 14: 2,
		21: 0, 22: 1, 25: 2, 101: 0, 111: 2, 1000: 2,
	}
	for n, want := range cases {
		require.Equalf(t, want, r.Index(n), "n=%d", n)
	}
}

func TestIndexSimpleLanguages(t *testing.T) {
	ko := For(language.Korean)
	for _, n := range []int{0, 1, 2, 100} {
		require.Equal(t, 0, ko.Index(n))
	}

	en := For(language.English)
	require.Equal(t, 1, en.Index(0))
	require.Equal(t, 0, en.Index(1))
	require.Equal(t, 1, en.Index(2))

	fr := For(language.French)
	require.Equal(t, 0, fr.Index(0))
	require.Equal(t, 0, fr.Index(1))
	require.Equal(t, 1, fr.Index(2))
}

func TestIndexPolishAndArabic(t *testing.T) {
	pl := For(language.Polish)
	require.Equal(t, 0, pl.Index(1))
	require.Equal(t, 1, pl.Index(2))
	require.Equal(t, 2, pl.Index(5))
	require.Equal(t, 2, pl.Index(12))
	require.Equal(t, 1, pl.Index(22))
	require.Equal(t, 2, pl.Index(21))

	ar := For(language.Arabic)
	require.Equal(t, 0, ar.Index(0))
	require.Equal(t, 1, ar.Index(1))
	require.Equal(t, 2, ar.Index(2))
	require.Equal(t, 3, ar.Index(5))
	require.Equal(t, 4, ar.Index(11))
	require.Equal(t, 5, ar.Index(100))
}

func TestIndexMalformed(t *testing.T) {
	require.Equal(t, -1, Rules{EQ}.Index(1))
	require.Equal(t, -1, Rules{BETWEEN, 1}.Index(1))
}

func TestKnown(t *testing.T) {
	require.True(t, Known(language.MustParse("ko-KR")))
	require.False(t, Known(language.MustParse("haw")))
}
