package tsxml

import (
	"linguist/internal/adapters/catalog"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

type Exporter struct {
	SourceLanguage string
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "ts" }

func (e *Exporter) Export(language string, items []ports.ExportItem) ([]byte, error) {
	c, err := catalog.ToCatalog(language, e.SourceLanguage, items)
	if err != nil {
		return nil, err
	}
	return ts.EncodeBytes(c)
}
