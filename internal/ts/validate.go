package ts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"

	"linguist/internal/plural"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes.
const (
	CodeEmptySource         = "empty-source"
	CodeDuplicateContext    = "duplicate-context"
	CodeDuplicateMessage    = "duplicate-message"
	CodeEmptyTranslation    = "empty-translation"
	CodeNumerusForms        = "numerus-forms"
	CodePlaceholderMismatch = "placeholder-mismatch"
	CodeAccelerator         = "accelerator"
	CodePunctuation         = "punctuation"
	CodeLanguage            = "language"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Context  string   `json:"context,omitempty"`
	Source   string   `json:"source,omitempty"`
	Location string   `json:"location,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) Error() string {
	var b strings.Builder
	if i.Location != "" {
		b.WriteString(i.Location)
		b.WriteString(": ")
	}
	if i.Context != "" {
		fmt.Fprintf(&b, "[%s] ", i.Context)
	}
	b.WriteString(i.Message)
	return b.String()
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(sev Severity, code string, ctx *Context, m *Message, format string, args ...any) {
	is := Issue{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...)}
	if ctx != nil {
		is.Context = ctx.Name
	}
	if m != nil {
		is.Source = m.Source
		if len(m.Locations) > 0 {
			loc := m.Locations[0]
			is.Location = loc.Filename
			if loc.Line >= 0 {
				is.Location += fmt.Sprintf(":%d", loc.Line)
			}
		}
	}
	r.Issues = append(r.Issues, is)
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

// Err joins every error severity issue, or returns nil when there is none.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			result = multierror.Append(result, is)
		}
	}
	return result.ErrorOrNil()
}

// Validate runs the document integrity checks and translation quality checks on c.
func Validate(c *Catalog) *Report {
	r := &Report{}

	forms := 0
	if c.Language == "" {
		r.add(SeverityWarning, CodeLanguage, nil, nil, "TS element has no language attribute")
	} else if tag, err := ParseLanguage(c.Language); err != nil {
		r.add(SeverityWarning, CodeLanguage, nil, nil, "unknown language %q", c.Language)
	} else {
		forms = plural.For(tag).Forms()
	}

	seenCtx := map[string]bool{}
	for _, ctx := range c.Contexts {
		if seenCtx[ctx.Name] {
			r.add(SeverityError, CodeDuplicateContext, ctx, nil, "context %q appears more than once", ctx.Name)
		}
		seenCtx[ctx.Name] = true

		seenMsg := map[[3]string]bool{}
		for _, m := range ctx.Messages {
			if m.Source == "" && m.ID == "" {
				r.add(SeverityError, CodeEmptySource, ctx, m, "message has an empty source string")
			}
			// id based messages are identified by their id alone
			k, label := [3]string{"", m.Source, m.Comment}, m.Source
			if m.ID != "" {
				k, label = [3]string{m.ID, "", ""}, m.ID
			}
			if seenMsg[k] && m.Translation.Type.Active() {
				r.add(SeverityError, CodeDuplicateMessage, ctx, m, "duplicate message %q", label)
			}
			if m.Translation.Type.Active() {
				seenMsg[k] = true
			}
			checkTranslation(r, ctx, m, forms)
		}
	}
	return r
}

func checkTranslation(r *Report, ctx *Context, m *Message, forms int) {
	if m.Translation.Type != StatusFinished {
		return
	}
	if m.Translation.Empty() {
		r.add(SeverityWarning, CodeEmptyTranslation, ctx, m, "finished message %q has no translation", m.Source)
		return
	}
	if m.Numerus && forms > 0 && len(m.Translation.Forms) != forms {
		r.add(SeverityWarning, CodeNumerusForms, ctx, m, "expected %d numerus forms, got %d", forms, len(m.Translation.Forms))
	}
	for _, tr := range m.Texts() {
		if tr == "" {
			continue
		}
		if missing, extra := diffPlaceholders(m.Source, tr, m.Numerus); len(missing)+len(extra) > 0 {
			r.add(SeverityWarning, CodePlaceholderMismatch, ctx, m, "placeholders differ: missing %v, unexpected %v", missing, extra)
		}
		if hasAccelerator(m.Source) != hasAccelerator(tr) {
			r.add(SeverityWarning, CodeAccelerator, ctx, m, "accelerator present in only one of source and translation")
		}
		if msg := punctuationMismatch(m.Source, tr); msg != "" {
			r.add(SeverityInfo, CodePunctuation, ctx, m, "%s", msg)
		}
	}
}

var placeholderRE = regexp.MustCompile(`%L?[1-9][0-9]?|%L?n`)

// Placeholders returns the sorted set of Qt argument markers in s.
func Placeholders(s string) []string {
	found := placeholderRE.FindAllString(s, -1)
	if len(found) == 0 {
		return nil
	}
	set := map[string]struct{}{}
	for _, p := range found {
		set[p] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func diffPlaceholders(source, tr string, numerus bool) (missing, extra []string) {
	src := map[string]bool{}
	for _, p := range Placeholders(source) {
		src[p] = true
	}
	dst := map[string]bool{}
	for _, p := range Placeholders(tr) {
		dst[p] = true
	}
	for p := range src {
		// a numerus form may spell the count out ("one file") instead of %n
		if !dst[p] && !(numerus && (p == "%n" || p == "%Ln")) {
			missing = append(missing, p)
		}
	}
	for p := range dst {
		if !src[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func hasAccelerator(s string) bool {
	rs := []rune(s)
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] != '&' {
			continue
		}
		if rs[i+1] == '&' {
			i++
			continue
		}
		if !unicode.IsSpace(rs[i+1]) {
			return true
		}
	}
	return false
}

func punctuationMismatch(source, tr string) string {
	if lead(source) != lead(tr) {
		return "leading whitespace differs"
	}
	if trail(source) != trail(tr) {
		return "trailing whitespace differs"
	}
	s := strings.TrimRightFunc(source, unicode.IsSpace)
	t := strings.TrimRightFunc(tr, unicode.IsSpace)
	se, te := hasSuffix(s, "...", "…"), hasSuffix(t, "...", "…")
	if se != te {
		return "ellipsis present in only one of source and translation"
	}
	if !se && hasSuffix(s, ".", "。") != hasSuffix(t, ".", "。") {
		return "full stop present in only one of source and translation"
	}
	if hasSuffix(s, ":", "：") != hasSuffix(t, ":", "：") {
		return "trailing colon present in only one of source and translation"
	}
	return ""
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func lead(s string) bool { return s != "" && unicode.IsSpace([]rune(s)[0]) }

func trail(s string) bool {
	if s == "" {
		return false
	}
	rs := []rune(s)
	return unicode.IsSpace(rs[len(rs)-1])
}
