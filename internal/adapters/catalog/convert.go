// Package catalog moves messages between ts catalogs and the flat
// unit/translation shape the store and the exporters work with.
package catalog

import (
	"encoding/json"
	"fmt"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

// FromCatalog flattens c into units in document order. Each unit has a
// translation entry for c.Language, including untranslated ones, so the
// status survives a round trip.
func FromCatalog(c *ts.Catalog) ports.ParseResult {
	res := ports.ParseResult{
		Translations: map[string]*domain.Translation{},
		Locale:       c.Language,
		SourceLang:   c.SourceLanguage,
	}
	pos := 0
	for _, ctx := range c.Contexts {
		for _, m := range ctx.Messages {
			meta := domain.UnitMeta{
				ID:                m.ID,
				OldSource:         m.OldSource,
				OldComment:        m.OldComment,
				ExtraComment:      m.ExtraComment,
				TranslatorComment: m.TranslatorComment,
				ContextComment:    ctx.Comment,
			}
			for _, l := range m.Locations {
				meta.Locations = append(meta.Locations, domain.UnitLocation{File: l.Filename, Line: l.Line})
			}
			raw, _ := json.Marshal(meta)
			key := m.Key(ctx.Name)
			res.Units = append(res.Units, &domain.Unit{
				Key:         key,
				Context:     ctx.Name,
				SourceText:  m.Source,
				Comment:     m.Comment,
				Numerus:     m.Numerus,
				Position:    pos,
				MetadataRaw: string(raw),
			})
			tr := &domain.Translation{Locale: c.Language, Status: m.Translation.Type.String()}
			if m.Numerus {
				tr.Forms = append([]string(nil), m.Translation.Forms...)
			} else {
				tr.Text = m.Translation.Text
			}
			res.Translations[key] = tr
			pos++
		}
	}
	return res
}

// Items pairs parsed units with their translations. Units without a
// translation come out unfinished.
func Items(res ports.ParseResult) []ports.ExportItem {
	items := make([]ports.ExportItem, 0, len(res.Units))
	for _, u := range res.Units {
		items = append(items, Item(u, res.Translations[u.Key]))
	}
	return items
}

// Item builds one export item; t may be nil.
func Item(u *domain.Unit, t *domain.Translation) ports.ExportItem {
	it := ports.ExportItem{
		Key:        u.Key,
		Context:    u.Context,
		SourceText: u.SourceText,
		Comment:    u.Comment,
		Numerus:    u.Numerus,
		Status:     domain.StatusUnfinished,
	}
	if u.MetadataRaw != "" {
		_ = json.Unmarshal([]byte(u.MetadataRaw), &it.Meta)
	}
	if t != nil {
		it.Translation = t.Text
		it.Forms = t.Forms
		if t.Status != "" {
			it.Status = t.Status
		}
	}
	return it
}

// ToCatalog rebuilds a catalog from items. Contexts appear in order of
// first use.
func ToCatalog(language, sourceLang string, items []ports.ExportItem) (*ts.Catalog, error) {
	c := ts.New(language)
	c.SourceLanguage = sourceLang
	for _, it := range items {
		st, err := ts.ParseStatus(it.Status)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", it.Key, err)
		}
		ctx := c.EnsureContext(it.Context)
		if ctx.Comment == "" {
			ctx.Comment = it.Meta.ContextComment
		}
		m := &ts.Message{
			ID:                it.Meta.ID,
			Numerus:           it.Numerus,
			Source:            it.SourceText,
			OldSource:         it.Meta.OldSource,
			Comment:           it.Comment,
			OldComment:        it.Meta.OldComment,
			ExtraComment:      it.Meta.ExtraComment,
			TranslatorComment: it.Meta.TranslatorComment,
			Translation:       ts.Translation{Type: st},
		}
		for _, l := range it.Meta.Locations {
			m.Locations = append(m.Locations, ts.Location{Filename: l.File, Line: l.Line})
		}
		if it.Numerus {
			m.Translation.Forms = append([]string(nil), it.Forms...)
			if len(m.Translation.Forms) == 0 && it.Translation != "" {
				m.Translation.Forms = []string{it.Translation}
			}
		} else {
			m.Translation.Text = it.Translation
		}
		ctx.Messages = append(ctx.Messages, m)
	}
	return c, nil
}
