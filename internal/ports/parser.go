package ports

import (
	"errors"

	"linguist/internal/domain"
)

// ErrUnsupportedFormat is returned by registries for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseResult is what a parser extracts from one file. Translations are
// keyed by unit key and carry no ids yet.
type ParseResult struct {
	Units        []*domain.Unit
	Translations map[string]*domain.Translation
	Locale       string // target locale, if the file declares one
	SourceLang   string
}

type Parser interface {
	Format() string
	Parse(data []byte) (ParseResult, error)
}
