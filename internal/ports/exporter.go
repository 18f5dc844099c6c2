package ports

import "linguist/internal/domain"

// ExportItem is one message ready to be written out. Status uses the
// domain.Status* names; Forms is set for numerus messages.
type ExportItem struct {
	Key         string
	Context     string
	SourceText  string
	Comment     string
	Numerus     bool
	Translation string
	Forms       []string
	Status      string
	Meta        domain.UnitMeta
}

type Exporter interface {
	Format() string
	Export(language string, items []ExportItem) ([]byte, error)
}
