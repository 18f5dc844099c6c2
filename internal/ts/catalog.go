// Package ts reads, writes and checks Qt Linguist translation source files.
//
// A catalog holds one language's translations grouped by context, the way
// lupdate produces them and lrelease consumes them.
package ts

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrMalformed is returned when a document is not a well formed TS file.
var ErrMalformed = errors.New("malformed ts document")

// Status is the translation type attribute. The zero value is a finished translation.
type Status string

const (
	StatusFinished   Status = ""
	StatusUnfinished Status = "unfinished"
	StatusVanished   Status = "vanished"
	StatusObsolete   Status = "obsolete"
)

// Active reports whether messages with this status are still emitted by the application.
func (s Status) Active() bool { return s == StatusFinished || s == StatusUnfinished }

func (s Status) String() string {
	if s == StatusFinished {
		return "finished"
	}
	return string(s)
}

// ParseStatus accepts both attribute values and the "finished" spelling used in exports.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "", "finished":
		return StatusFinished, nil
	case "unfinished":
		return StatusUnfinished, nil
	case "vanished":
		return StatusVanished, nil
	case "obsolete":
		return StatusObsolete, nil
	}
	return "", errors.New("unknown translation status: " + s)
}

type Location struct {
	Filename string
	Line     int // -1 when the file carries no line
}

type Translation struct {
	Type  Status
	Text  string
	Forms []string // numerus forms, used when the message is numerus
}

// Empty reports whether no translated text is present at all.
func (t Translation) Empty() bool {
	if t.Text != "" {
		return false
	}
	for _, f := range t.Forms {
		if f != "" {
			return false
		}
	}
	return true
}

type Message struct {
	ID                string
	Numerus           bool
	Locations         []Location
	Source            string
	OldSource         string
	Comment           string
	OldComment        string
	ExtraComment      string
	TranslatorComment string
	Translation       Translation
}

// Key returns the stable identity of the message inside ctx.
func (m *Message) Key(ctx string) string {
	if m.ID != "" {
		return m.ID
	}
	return MessageKey(ctx, m.Source, m.Comment)
}

// Texts returns the translated strings: the numerus forms or the single text.
func (m *Message) Texts() []string {
	if m.Numerus {
		return m.Translation.Forms
	}
	return []string{m.Translation.Text}
}

type Context struct {
	Name     string
	Comment  string
	Messages []*Message
}

// Find returns the message with the given source and disambiguation comment.
func (c *Context) Find(source, comment string) *Message {
	for _, m := range c.Messages {
		if m.Source == source && m.Comment == comment {
			return m
		}
	}
	return nil
}

type Catalog struct {
	Version        string
	Language       string
	SourceLanguage string
	Contexts       []*Context
}

// New returns an empty catalog in the current TS version.
func New(language string) *Catalog {
	return &Catalog{Version: "2.1", Language: language}
}

// Context returns the first context with the given name or nil.
func (c *Catalog) Context(name string) *Context {
	for _, ctx := range c.Contexts {
		if ctx.Name == name {
			return ctx
		}
	}
	return nil
}

// EnsureContext returns the named context, appending it when missing.
func (c *Catalog) EnsureContext(name string) *Context {
	if ctx := c.Context(name); ctx != nil {
		return ctx
	}
	ctx := &Context{Name: name}
	c.Contexts = append(c.Contexts, ctx)
	return ctx
}

// Lookup finds a message by context, source and comment.
func (c *Catalog) Lookup(context, source, comment string) *Message {
	ctx := c.Context(context)
	if ctx == nil {
		return nil
	}
	return ctx.Find(source, comment)
}

// Each calls fn for every message in document order and stops when fn returns false.
func (c *Catalog) Each(fn func(ctx *Context, m *Message) bool) {
	for _, ctx := range c.Contexts {
		for _, m := range ctx.Messages {
			if !fn(ctx, m) {
				return
			}
		}
	}
}

// Len returns the number of messages in all contexts.
func (c *Catalog) Len() int {
	n := 0
	for _, ctx := range c.Contexts {
		n += len(ctx.Messages)
	}
	return n
}

// MessageKey derives an opaque key from the message identity triple.
func MessageKey(context, source, comment string) string {
	h := sha256.New()
	h.Write([]byte(context))
	h.Write([]byte{0})
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(comment))
	return hex.EncodeToString(h.Sum(nil)[:8])
}
