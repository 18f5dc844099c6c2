package ts

import (
	"strings"

	"golang.org/x/text/language"
)

// ParseLanguage turns a TS language attribute ("ko_KR", "ru", "pt-BR") into a tag.
func ParseLanguage(code string) (language.Tag, error) {
	code = strings.TrimSpace(code)
	if i := strings.IndexByte(code, '.'); i >= 0 { // "ru_RU.UTF-8"
		code = code[:i]
	}
	return language.Parse(strings.ReplaceAll(code, "_", "-"))
}

// LanguageCode formats a tag the way Qt writes it in TS files: "ko_KR", "ru".
func LanguageCode(tag language.Tag) string {
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.Exact {
		return base.String() + "_" + region.String()
	}
	return base.String()
}
