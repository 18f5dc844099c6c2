package registry

import (
	"fmt"
	"sort"

	csvexp "linguist/internal/adapters/exporter/csv"
	"linguist/internal/adapters/exporter/nestedjson"
	qmexp "linguist/internal/adapters/exporter/qm"
	"linguist/internal/adapters/exporter/tsxml"
	"linguist/internal/ports"
)

type Registry struct{ byFormat map[string]ports.Exporter }

func New() *Registry { return &Registry{byFormat: map[string]ports.Exporter{}} }

// Default returns a registry with every built-in exporter.
func Default() *Registry {
	r := New()
	r.Register(tsxml.New())
	r.Register(csvexp.New())
	r.Register(nestedjson.New())
	r.Register(qmexp.New())
	return r
}

func (r *Registry) Register(e ports.Exporter) { r.byFormat[e.Format()] = e }

func (r *Registry) Get(format string) (ports.Exporter, bool) {
	e, ok := r.byFormat[format]
	return e, ok
}

func (r *Registry) Resolve(format string) (ports.Exporter, error) {
	if e, ok := r.byFormat[format]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
}

func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
