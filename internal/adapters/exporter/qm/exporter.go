package qm

import (
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"linguist/internal/adapters/catalog"
	"linguist/internal/ports"
	"linguist/internal/qm"
)

var log = logging.Logger("export/qm")

type Exporter struct {
	Options qm.Options
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "qm" }

func (e *Exporter) Export(language string, items []ports.ExportItem) ([]byte, error) {
	c, err := catalog.ToCatalog(language, "", items)
	if err != nil {
		return nil, err
	}
	out, res, err := qm.Compile(c, e.Options)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", language, err)
	}
	log.Infow("compiled", "language", language, "finished", res.Finished,
		"unfinished", res.Unfinished, "untranslated", res.Untranslated)
	return out, nil
}
