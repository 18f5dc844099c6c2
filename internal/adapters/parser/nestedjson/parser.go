// Package nestedjson reads catalogs stored as {context: {source: translation}}.
//
// Keys starting with '$' carry metadata ($locale, $source_language). A
// disambiguation comment is written before the source, separated by
// \x04 as gettext does. Numerus translations are arrays. A flat
// {source: translation} document is read as a single unnamed context.
package nestedjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

// CommentSeparator splits "comment\x04source" keys.
const CommentSeparator = "\x04"

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "json" }

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	dec := json.NewDecoder(bytes.NewReader(data))
	res := ports.ParseResult{Translations: map[string]*domain.Translation{}}
	if err := expectDelim(dec, '{'); err != nil {
		return res, err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return res, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return res, fmt.Errorf("invalid json: %w", err)
		}
		switch {
		case strings.HasPrefix(key, "$"):
			var s string
			if json.Unmarshal(raw, &s) != nil {
				continue
			}
			switch key {
			case "$locale":
				res.Locale = s
			case "$source_language":
				res.SourceLang = s
			}
		case len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{':
			if err := parseContext(&res, key, raw); err != nil {
				return res, err
			}
		default:
			if err := addMessage(&res, "", key, raw); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func parseContext(res *ports.ParseResult, name string, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("invalid json in context %q: %w", name, err)
		}
		if err := addMessage(res, name, key, v); err != nil {
			return err
		}
	}
	return nil
}

func addMessage(res *ports.ParseResult, context, key string, raw json.RawMessage) error {
	source, comment := key, ""
	if i := strings.Index(key, CommentSeparator); i >= 0 {
		comment, source = key[:i], key[i+len(CommentSeparator):]
	}
	u := &domain.Unit{
		Key:        ts.MessageKey(context, source, comment),
		Context:    context,
		SourceText: source,
		Comment:    comment,
		Position:   len(res.Units),
	}
	tr := &domain.Translation{Locale: res.Locale, Status: domain.StatusFinished}
	var text string
	var forms []string
	switch {
	case json.Unmarshal(raw, &text) == nil:
		tr.Text = text
	case json.Unmarshal(raw, &forms) == nil:
		u.Numerus = true
		tr.Forms = forms
	default:
		return fmt.Errorf("context %q, message %q: translation must be a string or an array of strings", context, source)
	}
	if text == "" && strings.Join(forms, "") == "" {
		tr.Status = domain.StatusUnfinished
	}
	res.Units = append(res.Units, u)
	res.Translations[u.Key] = tr
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("invalid json: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("invalid json: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("invalid json: expected object key, got %v", tok)
	}
	return key, nil
}
