package csv

import (
	"bytes"
	"encoding/csv"
	"strings"

	"linguist/internal/ports"
)

// formSeparator matches the csv parser's numerus cell separator.
const formSeparator = "\x1f"

type Exporter struct {
	// Comma overrides the field separator.
	Comma rune
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "csv" }

// Export writes one row per message. The language argument may also be a
// separator hint of the form "sep:comma|semicolon|tab".
func (e *Exporter) Export(language string, items []ports.ExportItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if e.Comma != 0 {
		w.Comma = e.Comma
	}
	if strings.HasPrefix(strings.ToLower(language), "sep:") {
		switch strings.TrimSpace(strings.ToLower(strings.TrimPrefix(language, "sep:"))) {
		case "semicolon":
			w.Comma = ';'
		case "tab":
			w.Comma = '\t'
		default:
			w.Comma = ','
		}
	}
	_ = w.Write([]string{"key", "context", "source", "comment", "numerus", "translation", "status"})
	for _, it := range items {
		text := it.Translation
		numerus := ""
		if it.Numerus {
			numerus = "yes"
			text = strings.Join(it.Forms, formSeparator)
		}
		_ = w.Write([]string{it.Key, it.Context, it.SourceText, it.Comment, numerus, text, it.Status})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
