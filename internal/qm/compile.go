package qm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"

	"linguist/internal/plural"
	"linguist/internal/ts"
)

type Options struct {
	// IgnoreUnfinished drops unfinished messages even when they carry text.
	IgnoreUnfinished bool
	// IDBased keys messages by their id attribute instead of source text.
	IDBased bool
	// Stripped omits context, source and comment where the hash alone is unique.
	Stripped bool
	// Dependencies names other .qm files the translator should load.
	Dependencies []string
}

// Result counts what went into a compiled file, like lrelease's summary line.
type Result struct {
	Finished     int
	Unfinished   int
	Untranslated int
	// Skipped counts unfinished messages left out by IgnoreUnfinished.
	Skipped int
	// NoID counts messages without an id in an id-based build.
	NoID int
	// Duplicates counts repeated messages dropped after the first.
	Duplicates int
}

// Generated is the number of translations written.
func (r Result) Generated() int { return r.Finished + r.Unfinished }

type entry struct {
	context, source, comment string
	translations             []string
}

func (e entry) less(o entry) bool {
	if e.context != o.context {
		return e.context < o.context
	}
	if e.source != o.source {
		return e.source < o.source
	}
	return e.comment < o.comment
}

// Compile releases c into .qm bytes. Vanished and obsolete messages never
// make it into the output; unfinished messages without text are counted as
// untranslated and skipped.
func Compile(c *ts.Catalog, opts Options) ([]byte, Result, error) {
	var res Result
	if c == nil {
		return nil, res, errors.New("compile: nil catalog")
	}
	seen := map[[3]string]bool{}
	var entries []entry
	c.Each(func(ctx *ts.Context, m *ts.Message) bool {
		if !m.Translation.Type.Active() {
			return true
		}
		e := entry{context: ctx.Name, source: m.Source, comment: m.Comment, translations: m.Texts()}
		if opts.IDBased {
			if m.ID == "" {
				res.NoID++
				return true
			}
			e = entry{source: m.ID, translations: e.translations}
		}
		unfinished := m.Translation.Type == ts.StatusUnfinished
		if unfinished {
			if m.Translation.Empty() {
				res.Untranslated++
				return true
			}
			if opts.IgnoreUnfinished {
				res.Skipped++
				return true
			}
		}
		k := [3]string{e.context, e.source, e.comment}
		if seen[k] {
			res.Duplicates++
			return true
		}
		seen[k] = true
		if unfinished {
			res.Unfinished++
		} else {
			res.Finished++
		}
		entries = append(entries, e)
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].less(entries[j]) })

	hashCount := map[uint32]int{}
	hashes := make([]uint32, len(entries))
	for i, e := range entries {
		hashes[i] = elfHash(e.source, e.comment)
		hashCount[hashes[i]]++
	}

	type offset struct{ hash, pos uint32 }
	var msgs bytes.Buffer
	offsets := make([]offset, 0, len(entries))
	for i, e := range entries {
		offsets = append(offsets, offset{hash: hashes[i], pos: uint32(msgs.Len())})
		full := !opts.Stripped || hashCount[hashes[i]] > 1
		writeEntry(&msgs, e, full)
	}
	sort.Slice(offsets, func(i, j int) bool {
		if offsets[i].hash != offsets[j].hash {
			return offsets[i].hash < offsets[j].hash
		}
		return offsets[i].pos < offsets[j].pos
	})
	var table bytes.Buffer
	for _, o := range offsets {
		binary.Write(&table, binary.BigEndian, o.hash)
		binary.Write(&table, binary.BigEndian, o.pos)
	}

	var out bytes.Buffer
	out.Write(magic[:])
	if c.Language != "" {
		writeSection(&out, sectionLanguage, []byte(c.Language))
	}
	if len(opts.Dependencies) > 0 {
		var deps bytes.Buffer
		for _, d := range opts.Dependencies {
			writeString16(&deps, d)
		}
		writeSection(&out, sectionDependencies, deps.Bytes())
	}
	if table.Len() > 0 {
		writeSection(&out, sectionHashes, table.Bytes())
	}
	if msgs.Len() > 0 {
		writeSection(&out, sectionMessages, msgs.Bytes())
	}
	if tag, err := ts.ParseLanguage(c.Language); err == nil && c.Language != "" {
		if rules := plural.For(tag); len(rules) > 0 {
			writeSection(&out, sectionNumerusRules, rules)
		}
	}
	return out.Bytes(), res, nil
}

func writeEntry(b *bytes.Buffer, e entry, full bool) {
	for _, t := range e.translations {
		b.WriteByte(tagTranslation)
		writeString16(b, t)
	}
	if full {
		b.WriteByte(tagComment)
		writeBytes(b, e.comment)
		b.WriteByte(tagSourceText)
		writeBytes(b, e.source)
		b.WriteByte(tagContext)
		writeBytes(b, e.context)
	}
	b.WriteByte(tagEnd)
}

func writeSection(b *bytes.Buffer, tag byte, data []byte) {
	b.WriteByte(tag)
	binary.Write(b, binary.BigEndian, uint32(len(data)))
	b.Write(data)
}

func writeString16(b *bytes.Buffer, s string) {
	u := encodeUTF16(s)
	binary.Write(b, binary.BigEndian, uint32(len(u)))
	b.Write(u)
}

func writeBytes(b *bytes.Buffer, s string) {
	binary.Write(b, binary.BigEndian, uint32(len(s)))
	b.WriteString(s)
}
