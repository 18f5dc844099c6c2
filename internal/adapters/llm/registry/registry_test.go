package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"linguist/internal/ports"
)

type stub struct{ err error }

func (s stub) Translate(context.Context, ports.Segment, ports.TranslateParams) (ports.TranslateResult, error) {
	return ports.TranslateResult{}, nil
}
func (s stub) ListModels(context.Context) ([]ports.ModelInfo, error) { return nil, nil }
func (s stub) Test(context.Context) error                            { return s.err }

func TestHealthCheck(t *testing.T) {
	r := New()
	r.Register("local", stub{})
	r.Register("remote", stub{err: errors.New("401")})
	r.Register("broken", nil)

	assert.Equal(t, []string{"broken", "local", "remote"}, r.Names())
	res := r.HealthCheck(context.Background())
	assert.NoError(t, res["local"])
	assert.EqualError(t, res["remote"], "401")
	assert.Error(t, res["broken"])

	_, ok := r.Get("local")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}
