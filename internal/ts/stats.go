package ts

import (
	"strings"
)

type Counts struct {
	Messages     int `json:"messages"`
	Finished     int `json:"finished"`
	Unfinished   int `json:"unfinished"`
	Untranslated int `json:"untranslated"` // unfinished with no text at all
	Vanished     int `json:"vanished"`
	Obsolete     int `json:"obsolete"`
	Numerus      int `json:"numerus"`
	SourceWords  int `json:"source_words"`
}

// Percent is the finished share of the messages the application still uses.
func (c Counts) Percent() float64 {
	active := c.Finished + c.Unfinished
	if active == 0 {
		return 100
	}
	return float64(c.Finished) * 100 / float64(active)
}

func (c *Counts) add(o Counts) {
	c.Messages += o.Messages
	c.Finished += o.Finished
	c.Unfinished += o.Unfinished
	c.Untranslated += o.Untranslated
	c.Vanished += o.Vanished
	c.Obsolete += o.Obsolete
	c.Numerus += o.Numerus
	c.SourceWords += o.SourceWords
}

type ContextStats struct {
	Name string `json:"name"`
	Counts
}

type Summary struct {
	Language string         `json:"language"`
	Contexts []ContextStats `json:"contexts"`
	Total    Counts         `json:"total"`
}

// Stats counts messages per translation state, per context and in total.
func Stats(c *Catalog) Summary {
	s := Summary{Language: c.Language}
	for _, ctx := range c.Contexts {
		cs := ContextStats{Name: ctx.Name}
		for _, m := range ctx.Messages {
			cs.Messages++
			if m.Numerus {
				cs.Numerus++
			}
			switch m.Translation.Type {
			case StatusFinished:
				cs.Finished++
				cs.SourceWords += len(strings.Fields(m.Source))
			case StatusUnfinished:
				cs.Unfinished++
				if m.Translation.Empty() {
					cs.Untranslated++
				}
				cs.SourceWords += len(strings.Fields(m.Source))
			case StatusVanished:
				cs.Vanished++
			case StatusObsolete:
				cs.Obsolete++
			}
		}
		s.Contexts = append(s.Contexts, cs)
		s.Total.add(cs.Counts)
	}
	return s
}
