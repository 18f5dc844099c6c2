package nestedjson

import (
	"bytes"
	"encoding/json"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

const commentSeparator = "\x04"

type Exporter struct {
	SourceLanguage string
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "json" }

type pair struct {
	key   string
	value any
}

// Export writes contexts in order of first use. Vanished and obsolete
// messages are left out; untranslated ones are written as "".
func (e *Exporter) Export(language string, items []ports.ExportItem) ([]byte, error) {
	var order []string
	byContext := map[string][]pair{}
	for _, it := range items {
		if it.Status == domain.StatusVanished || it.Status == domain.StatusObsolete {
			continue
		}
		if _, ok := byContext[it.Context]; !ok {
			order = append(order, it.Context)
		}
		key := it.SourceText
		if it.Comment != "" {
			key = it.Comment + commentSeparator + key
		}
		var v any = it.Translation
		if it.Numerus {
			forms := it.Forms
			if forms == nil {
				forms = []string{}
			}
			v = forms
		}
		byContext[it.Context] = append(byContext[it.Context], pair{key, v})
	}

	var top []pair
	if language != "" {
		top = append(top, pair{"$locale", language})
	}
	if e.SourceLanguage != "" {
		top = append(top, pair{"$source_language", e.SourceLanguage})
	}
	for _, name := range order {
		inner, err := object(byContext[name])
		if err != nil {
			return nil, err
		}
		top = append(top, pair{name, json.RawMessage(inner)})
	}
	raw, err := object(top)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// object encodes pairs as a JSON object, keeping their order.
func object(pairs []pair) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(p.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(p.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
