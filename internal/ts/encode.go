package ts

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Encode writes c in the layout lupdate produces, so regenerated files diff cleanly.
func Encode(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)
	version := c.Version
	if version == "" {
		version = "2.1"
	}
	bw.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n")
	fmt.Fprintf(bw, "<TS version=\"%s\"", protect(version))
	if c.Language != "" && c.Language != "C" {
		fmt.Fprintf(bw, " language=\"%s\"", protect(c.Language))
	}
	if c.SourceLanguage != "" && c.SourceLanguage != "C" {
		fmt.Fprintf(bw, " sourcelanguage=\"%s\"", protect(c.SourceLanguage))
	}
	bw.WriteString(">\n")
	for _, ctx := range c.Contexts {
		bw.WriteString("<context>\n")
		fmt.Fprintf(bw, "    <name>%s</name>\n", protect(ctx.Name))
		if ctx.Comment != "" {
			fmt.Fprintf(bw, "    <comment>%s</comment>\n", protect(ctx.Comment))
		}
		for _, m := range ctx.Messages {
			writeMessage(bw, m)
		}
		bw.WriteString("</context>\n")
	}
	bw.WriteString("</TS>\n")
	return bw.Flush()
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMessage(bw *bufio.Writer, m *Message) {
	bw.WriteString("    <message")
	if m.ID != "" {
		fmt.Fprintf(bw, " id=\"%s\"", protect(m.ID))
	}
	if m.Numerus {
		bw.WriteString(" numerus=\"yes\"")
	}
	bw.WriteString(">\n")
	for _, loc := range m.Locations {
		fmt.Fprintf(bw, "        <location filename=\"%s\"", protect(loc.Filename))
		if loc.Line >= 0 {
			bw.WriteString(" line=\"" + strconv.Itoa(loc.Line) + "\"")
		}
		bw.WriteString("/>\n")
	}
	writeElem(bw, "source", m.Source, true)
	writeElem(bw, "oldsource", m.OldSource, false)
	writeElem(bw, "comment", m.Comment, false)
	writeElem(bw, "oldcomment", m.OldComment, false)
	writeElem(bw, "extracomment", m.ExtraComment, false)
	writeElem(bw, "translatorcomment", m.TranslatorComment, false)

	bw.WriteString("        <translation")
	if m.Translation.Type != StatusFinished {
		fmt.Fprintf(bw, " type=\"%s\"", m.Translation.Type)
	}
	bw.WriteString(">")
	if m.Numerus {
		forms := m.Translation.Forms
		if len(forms) == 0 {
			forms = []string{""}
		}
		for _, f := range forms {
			bw.WriteString("\n            <numerusform>" + protect(f) + "</numerusform>")
		}
		bw.WriteString("\n        ")
	} else {
		bw.WriteString(protect(m.Translation.Text))
	}
	bw.WriteString("</translation>\n")
	bw.WriteString("    </message>\n")
}

func writeElem(bw *bufio.Writer, name, text string, always bool) {
	if text == "" && !always {
		return
	}
	bw.WriteString("        <" + name + ">" + protect(text) + "</" + name + ">\n")
}

func protect(s string) string {
	var b bytes.Buffer
	b.Grow(len(s) + len(s)/5)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("&quot;")
		case '&':
			b.WriteString("&amp;")
		case '>':
			b.WriteString("&gt;")
		case '<':
			b.WriteString("&lt;")
		case '\'':
			b.WriteString("&apos;")
		default:
			if r < 0x20 && r != '\r' && r != '\n' && r != '\t' {
				fmt.Fprintf(&b, "<byte value=\"x%x\"/>", r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
