package qm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"linguist/internal/plural"
	"linguist/internal/ts"
)

// Translator answers lookups against one compiled file.
type Translator struct {
	language     string
	rules        plural.Rules
	hashes       []byte
	messages     []byte
	dependencies []string
}

// Open parses the section layout of a .qm file. The message data is kept
// as is and decoded lazily on lookup.
func Open(data []byte) (*Translator, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, ErrBadMagic
	}
	t := &Translator{}
	p := data[len(magic):]
	for len(p) > 0 {
		if len(p) < 5 {
			return nil, ErrTruncated
		}
		tag := p[0]
		size := binary.BigEndian.Uint32(p[1:5])
		p = p[5:]
		if uint64(size) > uint64(len(p)) {
			return nil, fmt.Errorf("%w: section 0x%02x wants %d bytes, %d left", ErrTruncated, tag, size, len(p))
		}
		body := p[:size]
		p = p[size:]
		switch tag {
		case sectionLanguage:
			t.language = string(body)
		case sectionHashes:
			if len(body)%8 != 0 {
				return nil, fmt.Errorf("%w: hash table size %d", ErrTruncated, len(body))
			}
			t.hashes = body
		case sectionMessages:
			t.messages = body
		case sectionNumerusRules:
			t.rules = plural.Rules(body)
		case sectionDependencies:
			deps, err := readStrings16(body)
			if err != nil {
				return nil, err
			}
			t.dependencies = deps
		case sectionContexts:
			// context hash table, only an optimisation for misses
		}
	}
	return t, nil
}

func (t *Translator) Language() string       { return t.language }
func (t *Translator) Dependencies() []string { return t.dependencies }
func (t *Translator) Rules() plural.Rules    { return t.rules }

// Empty reports whether the file holds no messages.
func (t *Translator) Empty() bool { return len(t.messages) == 0 }

// Translate looks a message up. n selects the numerus form and is ignored
// when negative. A lookup with a comment falls back to the same source
// without comment, as QTranslator does.
func (t *Translator) Translate(context, source, comment string, n int) (string, bool) {
	form := 0
	if n >= 0 && len(t.rules) > 0 {
		form = t.rules.Index(n)
		if form < 0 {
			form = 0
		}
	}
	for {
		h := elfHash(source, comment)
		count := len(t.hashes) / 8
		start := sort.Search(count, func(i int) bool {
			return binary.BigEndian.Uint32(t.hashes[i*8:]) >= h
		})
		for i := start; i < count && binary.BigEndian.Uint32(t.hashes[i*8:]) == h; i++ {
			off := binary.BigEndian.Uint32(t.hashes[i*8+4:])
			if int(off) >= len(t.messages) {
				continue
			}
			if s, ok := t.match(t.messages[off:], context, source, comment, form); ok {
				return s, true
			}
		}
		if comment == "" {
			return "", false
		}
		comment = ""
	}
}

func (t *Translator) match(m []byte, context, source, comment string, form int) (string, bool) {
	rec, err := readRecord(m)
	if err != nil {
		return "", false
	}
	if rec.hasSource && rec.source != source {
		return "", false
	}
	if rec.hasContext && rec.context != context {
		return "", false
	}
	if rec.hasComment && rec.comment != comment {
		return "", false
	}
	if form >= len(rec.translations) {
		return "", false
	}
	return rec.translations[form], true
}

type record struct {
	translations []string
	source       string
	context      string
	comment      string
	hasSource    bool
	hasContext   bool
	hasComment   bool
	size         int
}

func readRecord(m []byte) (record, error) {
	var rec record
	i := 0
	for {
		if i >= len(m) {
			return rec, ErrTruncated
		}
		tag := m[i]
		i++
		switch tag {
		case tagEnd:
			rec.size = i
			return rec, nil
		case tagTranslation:
			if i+4 > len(m) {
				return rec, ErrTruncated
			}
			n := binary.BigEndian.Uint32(m[i:])
			i += 4
			if n == nullLength {
				rec.translations = append(rec.translations, "")
				continue
			}
			if n%2 != 0 || i+int(n) > len(m) {
				return rec, ErrTruncated
			}
			rec.translations = append(rec.translations, decodeUTF16(m[i:i+int(n)]))
			i += int(n)
		case tagObsolete1:
			i += 4
		case tagSourceText, tagContext, tagComment:
			if i+4 > len(m) {
				return rec, ErrTruncated
			}
			n := int(binary.BigEndian.Uint32(m[i:]))
			i += 4
			if i+n > len(m) {
				return rec, ErrTruncated
			}
			s := string(m[i : i+n])
			i += n
			switch tag {
			case tagSourceText:
				rec.source, rec.hasSource = s, true
			case tagContext:
				rec.context, rec.hasContext = s, true
			case tagComment:
				rec.comment, rec.hasComment = s, true
			}
		default:
			return rec, fmt.Errorf("unknown message tag 0x%02x", tag)
		}
	}
}

func readStrings16(b []byte) ([]string, error) {
	var out []string
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, ErrTruncated
		}
		n := binary.BigEndian.Uint32(b)
		b = b[4:]
		if n == nullLength {
			out = append(out, "")
			continue
		}
		if uint64(n) > uint64(len(b)) {
			return nil, ErrTruncated
		}
		out = append(out, decodeUTF16(b[:n]))
		b = b[n:]
	}
	return out, nil
}

// Decompile turns the messages of a compiled file back into a catalog.
// Stripped files lose the texts that were not stored, so their messages
// come back with empty sources.
func Decompile(t *Translator) (*ts.Catalog, error) {
	c := ts.New(t.language)
	for p := t.messages; len(p) > 0; {
		rec, err := readRecord(p)
		if err != nil {
			return nil, err
		}
		p = p[rec.size:]
		m := &ts.Message{Source: rec.source, Comment: rec.comment}
		if len(rec.translations) > 1 {
			m.Numerus = true
			m.Translation.Forms = rec.translations
		} else if len(rec.translations) == 1 {
			m.Translation.Text = rec.translations[0]
		}
		ctx := c.EnsureContext(rec.context)
		ctx.Messages = append(ctx.Messages, m)
	}
	return c, nil
}
