// Package merger updates an existing translation catalog with the messages
// freshly extracted from the sources, the way lupdate does.
package merger

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	logging "github.com/ipfs/go-log/v2"

	"linguist/internal/ts"
)

var log = logging.Logger("merge")

// DefaultThreshold is the similarity ratio at which an old translation is
// offered for a changed source text.
const DefaultThreshold = 0.8

type Options struct {
	// NoObsolete drops messages that disappeared instead of keeping them.
	NoObsolete bool
	// Similar reuses translations of close source texts in the same context.
	Similar bool
	// Threshold overrides DefaultThreshold when positive.
	Threshold float64
}

// Result counts what happened to each message.
type Result struct {
	Same     int // kept with their translation
	New      int // added as unfinished
	Vanished int // finished, no longer in the sources
	Obsolete int // unfinished, no longer in the sources
	Similar  int // matched to a close source text
	Dropped  int // removed: untranslated or NoObsolete
}

// Merge returns a new catalog holding the messages of fresh with the
// translations of base. Neither input is modified.
func Merge(base, fresh *ts.Catalog, opts Options) (*ts.Catalog, Result) {
	var res Result
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	out := ts.New(base.Language)
	if out.Language == "" {
		out.Language = fresh.Language
	}
	out.SourceLanguage = fresh.SourceLanguage
	if out.SourceLanguage == "" {
		out.SourceLanguage = base.SourceLanguage
	}

	// Exact matches are settled first so that a similar-text match never
	// takes a message another one matches exactly.
	used := map[*ts.Message]bool{}
	exact := map[*ts.Message]*ts.Message{}
	for _, fctx := range fresh.Contexts {
		if bctx := base.Context(fctx.Name); bctx != nil {
			for _, fm := range fctx.Messages {
				if old := findUnused(bctx, fm, used); old != nil {
					used[old] = true
					exact[fm] = old
				}
			}
		}
	}

	for _, fctx := range fresh.Contexts {
		octx := out.EnsureContext(fctx.Name)
		octx.Comment = fctx.Comment
		bctx := base.Context(fctx.Name)
		for _, fm := range fctx.Messages {
			m := clone(fm)
			old := exact[fm]
			var sim *ts.Message
			if old == nil && opts.Similar && bctx != nil {
				sim = closest(bctx, fm, used, threshold)
			}
			switch {
			case old != nil:
				adopt(m, old)
				res.Same++
			case sim != nil:
				used[sim] = true
				m.Translation = copyTranslation(sim.Translation)
				m.Translation.Type = ts.StatusUnfinished
				m.TranslatorComment = sim.TranslatorComment
				m.OldSource = sim.Source
				if sim.Comment != fm.Comment {
					m.OldComment = sim.Comment
				}
				res.Similar++
			default:
				m.Translation = ts.Translation{Type: ts.StatusUnfinished}
				res.New++
			}
			octx.Messages = append(octx.Messages, m)
		}
	}

	for _, bctx := range base.Contexts {
		for _, bm := range bctx.Messages {
			if used[bm] {
				continue
			}
			if opts.NoObsolete || bm.Translation.Empty() {
				res.Dropped++
				continue
			}
			m := clone(bm)
			m.Translation.Type = retired(bm.Translation.Type)
			m.Locations = nil
			octx := out.EnsureContext(bctx.Name)
			if octx.Comment == "" {
				octx.Comment = bctx.Comment
			}
			octx.Messages = append(octx.Messages, m)
			if m.Translation.Type == ts.StatusVanished {
				res.Vanished++
			} else {
				res.Obsolete++
			}
		}
	}
	log.Debugw("merged", "same", res.Same, "new", res.New, "similar", res.Similar, "vanished", res.Vanished, "obsolete", res.Obsolete, "dropped", res.Dropped)
	return out, res
}

// findUnused matches by id first, then by source text and comment.
func findUnused(ctx *ts.Context, fm *ts.Message, used map[*ts.Message]bool) *ts.Message {
	for _, bm := range ctx.Messages {
		if used[bm] {
			continue
		}
		if fm.ID != "" && bm.ID == fm.ID {
			return bm
		}
		if fm.ID == "" && bm.Source == fm.Source && bm.Comment == fm.Comment {
			return bm
		}
	}
	return nil
}

// retired is the state of a message that left the sources: finished
// translations vanish, unfinished ones become obsolete.
func retired(st ts.Status) ts.Status {
	switch st {
	case ts.StatusFinished:
		return ts.StatusVanished
	case ts.StatusUnfinished:
		return ts.StatusObsolete
	}
	return st
}

// revived undoes retired for a message that is back in the sources.
func revived(st ts.Status) ts.Status {
	switch st {
	case ts.StatusVanished:
		return ts.StatusFinished
	case ts.StatusObsolete:
		return ts.StatusUnfinished
	}
	return st
}

// adopt copies the translation state of old into m. A message whose numerus
// flag changed needs review.
func adopt(m, old *ts.Message) {
	m.Translation = copyTranslation(old.Translation)
	m.Translation.Type = revived(old.Translation.Type)
	m.TranslatorComment = old.TranslatorComment
	if old.Numerus != m.Numerus {
		m.Translation.Type = ts.StatusUnfinished
	}
	if m.Translation.Empty() {
		m.Translation.Type = ts.StatusUnfinished
	}
	if old.Numerus != m.Numerus {
		if m.Numerus && len(m.Translation.Forms) == 0 && m.Translation.Text != "" {
			m.Translation.Forms = []string{m.Translation.Text}
		}
		if !m.Numerus && m.Translation.Text == "" && len(m.Translation.Forms) > 0 {
			m.Translation.Text = m.Translation.Forms[0]
		}
	}
}

func closest(ctx *ts.Context, fm *ts.Message, used map[*ts.Message]bool, threshold float64) *ts.Message {
	var best *ts.Message
	bestScore := threshold
	for _, bm := range ctx.Messages {
		if used[bm] || bm.Translation.Empty() || bm.Numerus != fm.Numerus {
			continue
		}
		if s := Similarity(bm.Source, fm.Source); s >= bestScore {
			best, bestScore = bm, s
		}
	}
	return best
}

// Similarity is 1 minus the edit distance over the longer length, in runes.
func Similarity(a, b string) float64 {
	n := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if n == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(n)
}

func clone(m *ts.Message) *ts.Message {
	c := *m
	c.Locations = append([]ts.Location(nil), m.Locations...)
	c.Translation = copyTranslation(m.Translation)
	return &c
}

func copyTranslation(t ts.Translation) ts.Translation {
	t.Forms = append([]string(nil), t.Forms...)
	return t
}
