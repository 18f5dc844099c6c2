package ts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	s := Stats(loadCatalog(t, "ko_KR.ts"))
	require.Equal(t, "ko_KR", s.Language)
	require.Len(t, s.Contexts, 3)

	require.Equal(t, Counts{Messages: 8, Finished: 6, Unfinished: 1, Untranslated: 1, Vanished: 1, Numerus: 1, SourceWords: 36}, s.Total)
	require.InDelta(t, 85.71, s.Total.Percent(), 0.01)

	gl := s.Contexts[1]
	require.Equal(t, "GameList", gl.Name)
	require.Equal(t, 3, gl.Messages)
	require.Equal(t, 1, gl.Unfinished)
}

func TestPercentEmpty(t *testing.T) {
	require.Equal(t, float64(100), Counts{}.Percent())
}
