// Package plural evaluates Qt numerus rules, the byte programs lrelease embeds
// in .qm files to pick a plural form for a count.
package plural

import (
	"golang.org/x/text/language"
)

// Rule opcodes.
const (
	EQ      byte = 0x01
	LT      byte = 0x02
	LEQ     byte = 0x03
	BETWEEN byte = 0x04

	opMask byte = 0x07

	NOT      byte = 0x08
	MOD10    byte = 0x10
	MOD100   byte = 0x20
	LEAD1000 byte = 0x40

	AND     byte = 0xFD
	OR      byte = 0xFE
	NEWRULE byte = 0xFF

	NEQ        = NOT | EQ
	GT         = NOT | LEQ
	GEQ        = NOT | LT
	NOTBETWEEN = NOT | BETWEEN
)

// Rules is a compiled numerus program. An empty program means one form.
type Rules []byte

var (
	none       = Rules{}
	english    = Rules{EQ, 1}
	french     = Rules{LEQ, 1}
	latvian    = Rules{MOD10 | EQ, 1, AND, MOD100 | NEQ, 11, NEWRULE, NEQ, 0}
	icelandic  = Rules{MOD10 | EQ, 1, AND, MOD100 | NEQ, 11}
	irish      = Rules{EQ, 1, NEWRULE, EQ, 2}
	gaelic     = Rules{EQ, 1, OR, EQ, 11, NEWRULE, EQ, 2, OR, EQ, 12, NEWRULE, BETWEEN, 3, 19}
	slovak     = Rules{EQ, 1, NEWRULE, BETWEEN, 2, 4}
	macedonian = Rules{MOD10 | EQ, 1, NEWRULE, MOD10 | EQ, 2}
	lithuanian = Rules{MOD10 | EQ, 1, AND, MOD100 | NEQ, 11, NEWRULE, MOD10 | NEQ, 0, AND, MOD100 | NOTBETWEEN, 10, 19}
	russian    = Rules{MOD10 | EQ, 1, AND, MOD100 | NEQ, 11, NEWRULE, MOD10 | BETWEEN, 2, 4, AND, MOD100 | NOTBETWEEN, 10, 19}
	polish     = Rules{EQ, 1, NEWRULE, MOD10 | BETWEEN, 2, 4, AND, MOD100 | NOTBETWEEN, 10, 19}
	romanian   = Rules{EQ, 1, NEWRULE, EQ, 0, OR, MOD100 | BETWEEN, 1, 19}
	slovenian  = Rules{MOD100 | EQ, 1, NEWRULE, MOD100 | EQ, 2, NEWRULE, MOD100 | BETWEEN, 3, 4}
	maltese    = Rules{EQ, 1, NEWRULE, EQ, 0, OR, MOD100 | BETWEEN, 1, 10, NEWRULE, MOD100 | BETWEEN, 11, 19}
	welsh      = Rules{EQ, 0, NEWRULE, EQ, 1, NEWRULE, BETWEEN, 2, 5, NEWRULE, EQ, 6}
	arabic     = Rules{EQ, 0, NEWRULE, EQ, 1, NEWRULE, EQ, 2, NEWRULE, MOD100 | BETWEEN, 3, 10, NEWRULE, MOD100 | GEQ, 11}
	tagalog    = Rules{LEQ, 1, NEWRULE, MOD10 | EQ, 4, OR, MOD10 | EQ, 6, OR, MOD10 | EQ, 9}
	catalan    = Rules{EQ, 1, NEWRULE, LEAD1000 | EQ, 11}
)

var byBase = map[string]Rules{}

func register(r Rules, bases ...string) {
	for _, b := range bases {
		byBase[b] = r
	}
}

func init() {
	register(none, "bo", "dz", "fa", "id", "ja", "jv", "km", "ko", "lo", "ms", "my", "su", "th", "to", "vi", "yo", "zh")
	register(english, "af", "az", "bg", "bn", "da", "de", "el", "en", "eo", "es", "et", "eu", "fi", "fo", "fy",
		"gl", "gu", "he", "hu", "it", "ka", "kk", "kn", "ky", "lb", "ml", "mn", "mr", "nb", "ne", "nl", "nn",
		"no", "or", "pa", "ps", "pt", "sq", "sv", "sw", "ta", "te", "tk", "tr", "ur", "uz")
	register(french, "ak", "br", "fr", "hi", "hy", "ln", "mg", "oc", "ti")
	register(russian, "be", "bs", "hr", "ru", "sr", "uk")
	register(polish, "pl")
	register(slovak, "cs", "sk")
	register(lithuanian, "lt")
	register(latvian, "lv")
	register(irish, "ga")
	register(gaelic, "gd")
	register(romanian, "ro", "mo")
	register(slovenian, "sl")
	register(maltese, "mt")
	register(welsh, "cy")
	register(arabic, "ar")
	register(icelandic, "is")
	register(macedonian, "mk")
	register(tagalog, "fil", "tl")
	register(catalan, "ca")
}

// For returns the numerus rules of a language. Unknown languages get the
// English two form rules, which is what lrelease falls back to.
func For(tag language.Tag) Rules {
	base, _ := tag.Base()
	if r, ok := byBase[base.String()]; ok {
		return r
	}
	return english
}

// Known reports whether the language has an entry in the rule table.
func Known(tag language.Tag) bool {
	base, _ := tag.Base()
	_, ok := byBase[base.String()]
	return ok
}

// Forms returns how many numerus forms a translation needs under r.
func (r Rules) Forms() int {
	if len(r) == 0 {
		return 1
	}
	n := 2
	for i := 0; i < len(r); i++ {
		switch r[i] {
		case NEWRULE:
			n++
		case AND, OR:
		default:
			// opcode followed by one operand, two for BETWEEN
			if r[i]&opMask == BETWEEN {
				i += 2
			} else {
				i++
			}
		}
	}
	return n
}

// Index picks the numerus form used for count n. It returns -1 when the
// program is malformed.
func (r Rules) Index(n int) int {
	if len(r) == 0 {
		return 0
	}
	size := len(r)
	i := 0
	result := 0
	next := func() (byte, bool) {
		if i >= size {
			return 0, false
		}
		b := r[i]
		i++
		return b, true
	}
	for {
		orValue := false
		for {
			andValue := true
			for {
				opcode, ok := next()
				if !ok {
					return -1
				}
				left := n
				switch {
				case opcode&MOD10 != 0:
					left %= 10
				case opcode&MOD100 != 0:
					left %= 100
				case opcode&LEAD1000 != 0:
					for left >= 1000 {
						left /= 1000
					}
				}
				right, ok := next()
				if !ok {
					return -1
				}
				truth := true
				switch opcode & opMask {
				case EQ:
					truth = left == int(right)
				case LT:
					truth = left < int(right)
				case LEQ:
					truth = left <= int(right)
				case BETWEEN:
					top, ok := next()
					if !ok {
						return -1
					}
					truth = left >= int(right) && left <= int(top)
				}
				if opcode&NOT != 0 {
					truth = !truth
				}
				andValue = andValue && truth
				if i == size || r[i] != AND {
					break
				}
				i++
			}
			orValue = orValue || andValue
			if i == size || r[i] != OR {
				break
			}
			i++
		}
		if orValue {
			return result
		}
		result++
		if i == size {
			return result
		}
		i++ // NEWRULE
	}
}
