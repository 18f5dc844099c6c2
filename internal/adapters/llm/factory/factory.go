package factory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	httpprov "linguist/internal/adapters/llm/httpclient"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

// FromProvider returns an HTTP-backed provider for the given record.
func FromProvider(p *domain.Provider, timeout time.Duration) (ports.Provider, error) {
	typ := strings.ToLower(p.Type)
	if !slices.Contains(httpprov.Types(), typ) {
		return nil, fmt.Errorf("unsupported provider type %q (want one of %s)", p.Type, strings.Join(httpprov.Types(), ", "))
	}
	c := httpprov.New(typ, p.APIKey, p.BaseURL, p.Model)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c, nil
}
