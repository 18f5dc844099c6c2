package ts

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

type xmlTS struct {
	XMLName        xml.Name     `xml:"TS"`
	Version        string       `xml:"version,attr"`
	Language       string       `xml:"language,attr"`
	SourceLanguage string       `xml:"sourcelanguage,attr"`
	Contexts       []xmlContext `xml:"context"`
}

type xmlContext struct {
	Name     string       `xml:"name"`
	Comment  string       `xml:"comment"`
	Messages []xmlMessage `xml:"message"`
}

type xmlMessage struct {
	ID                string         `xml:"id,attr"`
	Numerus           string         `xml:"numerus,attr"`
	Locations         []xmlLocation  `xml:"location"`
	Source            string         `xml:"source"`
	OldSource         string         `xml:"oldsource"`
	Comment           string         `xml:"comment"`
	OldComment        string         `xml:"oldcomment"`
	ExtraComment      string         `xml:"extracomment"`
	TranslatorComment string         `xml:"translatorcomment"`
	Translation       xmlTranslation `xml:"translation"`
}

type xmlLocation struct {
	Filename string `xml:"filename,attr"`
	Line     string `xml:"line,attr"`
}

type xmlTranslation struct {
	Type  string           `xml:"type,attr"`
	Forms []xmlNumerusForm `xml:"numerusform"`
	Text  string           `xml:",chardata"`
}

type xmlNumerusForm struct {
	Text string `xml:",chardata"`
}

// lupdate writes control characters as <byte value="x1b"/> elements. They are
// swapped for private use runes before decoding and restored afterwards.
var byteRE = regexp.MustCompile(`<byte\s+value\s*=\s*"(x[0-9A-Fa-f]+|[0-9]+)"\s*/>`)

const byteBase = 0x100000

// Decode parses a TS document.
func Decode(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes parses a TS document held in memory.
func DecodeBytes(data []byte) (*Catalog, error) {
	data = stripBOM(data)
	data = byteRE.ReplaceAllFunc(data, func(m []byte) []byte {
		v := string(byteRE.FindSubmatch(m)[1])
		var n uint64
		var err error
		if strings.HasPrefix(v, "x") {
			n, err = strconv.ParseUint(v[1:], 16, 8)
		} else {
			n, err = strconv.ParseUint(v, 10, 8)
		}
		if err != nil {
			return m
		}
		return []byte(string(rune(byteBase + n)))
	})

	var doc xmlTS
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := &Catalog{Version: doc.Version, Language: doc.Language, SourceLanguage: doc.SourceLanguage}
	lines := map[string]int{}
	lastFile := ""
	for _, xc := range doc.Contexts {
		ctx := &Context{Name: restore(xc.Name), Comment: restore(xc.Comment)}
		for _, xm := range xc.Messages {
			m := &Message{
				ID:                xm.ID,
				Numerus:           xm.Numerus == "yes",
				Source:            restore(xm.Source),
				OldSource:         restore(xm.OldSource),
				Comment:           restore(xm.Comment),
				OldComment:        restore(xm.OldComment),
				ExtraComment:      restore(xm.ExtraComment),
				TranslatorComment: restore(xm.TranslatorComment),
			}
			for _, xl := range xm.Locations {
				name := xl.Filename
				if name == "" {
					name = lastFile
				} else {
					lastFile = name
				}
				loc := Location{Filename: name, Line: -1}
				if xl.Line != "" {
					n, err := strconv.Atoi(xl.Line)
					if err != nil {
						return nil, fmt.Errorf("%w: bad line %q in context %q", ErrMalformed, xl.Line, ctx.Name)
					}
					if xl.Line[0] == '+' || xl.Line[0] == '-' {
						lines[name] += n
						n = lines[name]
					} else {
						lines[name] = n
					}
					loc.Line = n
				}
				m.Locations = append(m.Locations, loc)
			}
			st, err := ParseStatus(xm.Translation.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			m.Translation.Type = st
			if m.Numerus {
				for _, f := range xm.Translation.Forms {
					m.Translation.Forms = append(m.Translation.Forms, restore(f.Text))
				}
			} else {
				m.Translation.Text = restore(xm.Translation.Text)
			}
			ctx.Messages = append(ctx.Messages, m)
		}
		c.Contexts = append(c.Contexts, ctx)
	}
	return c, nil
}

func restore(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= byteBase && r <= byteBase+0xff }) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r >= byteBase && r <= byteBase+0xff {
			return r - byteBase
		}
		return r
	}, s)
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
