package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

// FormSeparator joins numerus forms inside one translation cell.
const FormSeparator = "\x1f"

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "csv" }

// Parse reads a header row and one message per line. A source column is
// required; key is derived from context, source and comment when absent.
func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return ports.ParseResult{}, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	col := func(names ...string) int {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i
			}
		}
		return -1
	}
	srcIdx := col("source", "value", "text", "default")
	if srcIdx == -1 {
		return ports.ParseResult{}, errors.New("csv missing source column (source/value/text/default)")
	}
	keyIdx := col("key", "id")
	ctxIdx := col("context")
	commentIdx := col("comment", "disambiguation")
	trIdx := col("translation", "target")
	statusIdx := col("status", "type")
	numerusIdx := col("numerus")

	res := ports.ParseResult{Translations: map[string]*domain.Translation{}}
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ports.ParseResult{}, err
		}
		line++
		get := func(i int) string {
			if i >= 0 && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		src := get(srcIdx)
		if src == "" {
			continue
		}
		u := &domain.Unit{
			Key:        get(keyIdx),
			Context:    get(ctxIdx),
			SourceText: src,
			Comment:    get(commentIdx),
			Numerus:    parseBool(get(numerusIdx)),
			Position:   len(res.Units),
		}
		if u.Key == "" {
			u.Key = ts.MessageKey(u.Context, u.SourceText, u.Comment)
		}
		res.Units = append(res.Units, u)
		if trIdx < 0 {
			continue
		}
		st, err := ts.ParseStatus(strings.ToLower(strings.TrimSpace(get(statusIdx))))
		if err != nil {
			return ports.ParseResult{}, fmt.Errorf("csv line %d: %w", line, err)
		}
		tr := &domain.Translation{Status: st.String()}
		text := get(trIdx)
		if u.Numerus {
			tr.Forms = strings.Split(text, FormSeparator)
		} else {
			tr.Text = text
		}
		if text == "" && st == ts.StatusFinished {
			tr.Status = domain.StatusUnfinished
		}
		res.Translations[u.Key] = tr
	}
	return res, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true":
		return true
	}
	return false
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
