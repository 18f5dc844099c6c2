package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	csvparser "linguist/internal/adapters/parser/csv"
	"linguist/internal/adapters/parser/nestedjson"
	"linguist/internal/adapters/parser/tsxml"
	"linguist/internal/ports"
)

type Registry struct {
	byFormat map[string]ports.Parser
}

func New() *Registry { return &Registry{byFormat: map[string]ports.Parser{}} }

// Default returns a registry with every built-in parser.
func Default() *Registry {
	r := New()
	r.Register(tsxml.New())
	r.Register(csvparser.New())
	r.Register(nestedjson.New())
	return r
}

func (r *Registry) Register(p ports.Parser) { r.byFormat[p.Format()] = p }

func (r *Registry) Get(format string) (ports.Parser, bool) {
	p, ok := r.byFormat[format]
	return p, ok
}

// Resolve is Get with an error naming the format.
func (r *Registry) Resolve(format string) (ports.Parser, error) {
	if p, ok := r.byFormat[format]; ok {
		return p, nil
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

var byExt = map[string]string{
	".ts":   "ts",
	".xml":  "ts",
	".csv":  "csv",
	".json": "json",
	".qm":   "qm",
}

// DetectFormat guesses the format name from a file extension.
func DetectFormat(path string) (string, error) {
	if f, ok := byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: cannot tell the format of %s", ports.ErrUnsupportedFormat, path)
}
