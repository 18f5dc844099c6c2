package translator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"linguist/internal/domain"
	"linguist/internal/ports"
	"linguist/internal/ts"
)

var log = logging.Logger("translator")

// ErrPlaceholderLost is returned when a provider drops a placeholder or tag.
var ErrPlaceholderLost = errors.New("placeholder missing in translation")

type Deps struct {
	Providers    ports.ProviderRepository
	Templates    ports.TemplateRepository
	Cache        ports.CacheRepository
	Translations ports.TranslationRepository
	Prompt       ports.PromptRenderer
	// BuildProvider should return a concrete ports.Provider for a given provider record
	BuildProvider func(*domain.Provider) (ports.Provider, error)
}

type Service struct{ d Deps }

func New(d Deps) *Service { return &Service{d: d} }

type TranslateArgs struct {
	ProviderID     int64
	Unit           *domain.Unit
	SourceLang     string
	TargetLang     string
	Model          string
	SystemOverride string
	UserOverride   string
	BypassCache    bool
}

const maxAttempts = 3

// TranslateOne machine-translates the source text of one unit. Qt
// placeholders, rich text tags and the accelerator are kept out of the
// provider's reach and put back afterwards.
func (s *Service) TranslateOne(ctx context.Context, a TranslateArgs) (string, error) {
	if a.Unit == nil {
		return "", errors.New("unit is required")
	}
	prov, err := s.d.Providers.Get(ctx, a.ProviderID)
	if err != nil {
		return "", err
	}
	model := a.Model
	if model == "" {
		model = prov.Model
	}
	text, accel := stripAccelerator(a.Unit.SourceText)
	placeholders := extractPlaceholders(text)
	tags := extractTags(text)
	masked, unmask := maskTokens(text, placeholders, tags)

	data := ports.PromptData{
		SrcLang:      a.SourceLang,
		TgtLang:      a.TargetLang,
		Key:          a.Unit.Key,
		Text:         masked,
		Context:      a.Unit.Context,
		Comment:      a.Unit.Comment,
		Numerus:      a.Unit.Numerus,
		Placeholders: placeholders,
		Tags:         tags,
	}

	if !a.BypassCache {
		if ce, _ := s.d.Cache.Get(ctx, masked, a.SourceLang, a.TargetLang, prov.Type, model); ce != nil {
			log.Debugw("cache hit", "unit", a.Unit.Key, "target", a.TargetLang)
			return restoreAccelerator(unmask(ce.Translation), accel, a.TargetLang), nil
		}
	}

	system := a.SystemOverride
	user := a.UserOverride
	if system == "" {
		if system, err = s.d.Prompt.Render(ctx, domain.ScopeProvider, &prov.ID, domain.TemplateTranslate, domain.RoleSystem, data); err != nil {
			return "", err
		}
	}
	if user == "" {
		if user, err = s.d.Prompt.Render(ctx, domain.ScopeProvider, &prov.ID, domain.TemplateTranslate, domain.RoleUser, data); err != nil {
			return "", err
		}
	}
	segment := ports.Segment{Key: a.Unit.Key, Text: masked, Context: a.Unit.Context, Placeholders: placeholders, Tags: tags}

	if s.d.BuildProvider == nil {
		return "", errors.New("translate: provider builder missing")
	}
	adapter, err := s.d.BuildProvider(prov)
	if err != nil {
		return "", err
	}
	var res ports.TranslateResult
	for attempt := 1; ; attempt++ {
		res, err = adapter.Translate(ctx, segment, ports.TranslateParams{
			SourceLang:   a.SourceLang,
			TargetLang:   a.TargetLang,
			Model:        model,
			SystemPrompt: system,
			UserPrompt:   user,
		})
		if err == nil {
			break
		}
		if !isRetryableTranslateError(err) || attempt == maxAttempts {
			return "", err
		}
		log.Warnw("retrying translation", "unit", a.Unit.Key, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(200*attempt) * time.Millisecond):
		}
	}
	translated := strings.TrimSpace(res.Translation)
	unmasked := unmask(translated)
	for _, tok := range append(append([]string{}, placeholders...), tags...) {
		if !strings.Contains(unmasked, tok) {
			return "", fmt.Errorf("%w: %s", ErrPlaceholderLost, tok)
		}
	}
	if err := s.d.Cache.Put(ctx, &domain.CacheEntry{
		SourceText:  masked,
		SrcLang:     a.SourceLang,
		TgtLang:     a.TargetLang,
		Provider:    prov.Type,
		Model:       model,
		Translation: translated,
	}); err != nil {
		log.Warnw("cache write failed", "err", err)
	}
	return restoreAccelerator(unmasked, accel, a.TargetLang), nil
}

var tagRE = regexp.MustCompile(`<[^>]+>`)
var namedRE = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// extractPlaceholders finds Qt arg markers (%1, %L2, %n) and {name} fields.
func extractPlaceholders(s string) []string {
	return uniqueSorted(append(ts.Placeholders(s), namedRE.FindAllString(s, -1)...))
}

func extractTags(s string) []string {
	return uniqueSorted(tagRE.FindAllString(s, -1))
}

func uniqueSorted(m []string) []string {
	if len(m) == 0 {
		return nil
	}
	uniq := make(map[string]struct{}, len(m))
	for _, v := range m {
		uniq[v] = struct{}{}
	}
	out := make([]string, 0, len(uniq))
	for v := range uniq {
		out = append(out, v)
	}
	// longest first so %10 is masked before %1
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func maskTokens(s string, placeholders, tags []string) (string, func(string) string) {
	masked := s
	var repls []struct{ from, to string }
	for i, ph := range placeholders {
		token := fmt.Sprintf("__PH_%d__", i)
		masked = strings.ReplaceAll(masked, ph, token)
		repls = append(repls, struct{ from, to string }{token, ph})
	}
	for i, tg := range tags {
		token := fmt.Sprintf("__TAG_%d__", i)
		masked = strings.ReplaceAll(masked, tg, token)
		repls = append(repls, struct{ from, to string }{token, tg})
	}
	unmask := func(in string) string {
		out := in
		for i := len(repls) - 1; i >= 0; i-- {
			out = strings.ReplaceAll(out, repls[i].from, repls[i].to)
		}
		return out
	}
	return masked, unmask
}

// stripAccelerator removes a single "&x" mnemonic marker; "&&" is a literal
// ampersand and stays.
func stripAccelerator(s string) (string, rune) {
	r := []rune(s)
	for i := 0; i < len(r)-1; i++ {
		if r[i] != '&' {
			continue
		}
		if r[i+1] == '&' {
			i++
			continue
		}
		if r[i+1] == ' ' {
			continue
		}
		return string(append(r[:i:i], r[i+1:]...)), r[i+1]
	}
	return s, 0
}

// restoreAccelerator puts the mnemonic back: before the same letter when
// the translation has it, otherwise as a "(&X)" suffix the way CJK
// translations of Qt applications do.
func restoreAccelerator(s string, key rune, target string) string {
	if key == 0 {
		return s
	}
	up := strings.ToUpper(string(key))
	if !cjk(target) {
		if i := strings.Index(s, string(key)); i >= 0 {
			return s[:i] + "&" + s[i:]
		}
		if i := strings.Index(strings.ToUpper(s), up); i >= 0 && len(strings.ToUpper(s)) == len(s) {
			return s[:i] + "&" + s[i:]
		}
	}
	return s + "(&" + up + ")"
}

func cjk(lang string) bool {
	switch strings.ToLower(strings.SplitN(strings.ReplaceAll(lang, "-", "_"), "_", 2)[0]) {
	case "zh", "ja", "ko":
		return true
	}
	return false
}

// isRetryableTranslateError returns true for malformed model output that
// tends to succeed on a second try.
func isRetryableTranslateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "failed to parse translation json"):
		return true
	case strings.Contains(msg, "no choices returned"):
		return true
	case strings.Contains(msg, "unexpected end of"):
		return true
	case strings.Contains(msg, "invalid character"):
		return true
	default:
		return false
	}
}
