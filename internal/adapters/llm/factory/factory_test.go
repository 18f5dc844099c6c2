package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/domain"
)

func TestFromProvider(t *testing.T) {
	for _, typ := range []string{"ollama", "OpenRouter", "openai"} {
		p, err := FromProvider(&domain.Provider{Type: typ}, 0)
		require.NoError(t, err, typ)
		assert.NotNil(t, p)
	}
	_, err := FromProvider(&domain.Provider{Type: "bard"}, 0)
	require.Error(t, err)
}
