package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/ports"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"translations/ko_KR.ts", "ts"},
		{"out/RU.QM", "qm"},
		{"dump.csv", "csv"},
		{"strings.json", "json"},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
	_, err := DetectFormat("README")
	assert.True(t, errors.Is(err, ports.ErrUnsupportedFormat))
}

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"csv", "json", "ts"}, r.Formats())
	p, err := r.Resolve("ts")
	require.NoError(t, err)
	assert.Equal(t, "ts", p.Format())
	_, err = r.Resolve("vdf")
	assert.ErrorIs(t, err, ports.ErrUnsupportedFormat)
}
