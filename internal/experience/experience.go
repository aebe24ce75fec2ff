// Package experience estimates years of experience from free text.
package experience

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// space is any Unicode whitespace, including NBSP and vertical tab.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// "5 years", "3.5 yrs", "7+ years"
	yearsPattern = regexp.MustCompile(`(\p{Nd}{1,2}(?:\.\p{Nd}+)?)` + space + `*(?:\+)?` + space + `*(?:years|yrs|year)`)
	// "3 - 7 years"
	rangePattern = regexp.MustCompile(`(\p{Nd}{1,2})` + space + `*-` + space + `*(\p{Nd}{1,2})` + space + `*years`)
)

// Years returns the largest "N years" mention in text. Only when there is none
// does it look at the first "A-B years" range and return its midpoint.
// ok is false when neither pattern matches. Digits of any script count.
func Years(text string) (years float64, ok bool) {
	lower := strings.ToLower(text)

	if matches := yearsPattern.FindAllStringSubmatch(lower, -1); len(matches) > 0 {
		for _, m := range matches {
			v, err := strconv.ParseFloat(normalizeDigits(m[1]), 64)
			if err != nil {
				continue
			}
			if !ok || v > years {
				years, ok = v, true
			}
		}
		if ok {
			return years, true
		}
	}

	if m := rangePattern.FindStringSubmatch(lower); m != nil {
		from, _ := strconv.ParseFloat(normalizeDigits(m[1]), 64)
		to, _ := strconv.ParseFloat(normalizeDigits(m[2]), 64)
		return (from + to) / 2, true
	}

	return 0, false
}

// normalizeDigits rewrites decimal digits of any script as ASCII so strconv
// can parse them.
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII || !unicode.IsDigit(r) {
			return r
		}
		if d, ok := digitValue(r); ok {
			return '0' + d
		}
		return r
	}, s)
}

// digitValue relies on Nd ranges being made of whole blocks of ten that start
// at a zero digit.
func digitValue(r rune) (rune, bool) {
	for _, rg := range unicode.Nd.R16 {
		if rg.Stride == 1 && r >= rune(rg.Lo) && r <= rune(rg.Hi) {
			return (r - rune(rg.Lo)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if rg.Stride == 1 && r >= rune(rg.Lo) && r <= rune(rg.Hi) {
			return (r - rune(rg.Lo)) % 10, true
		}
	}
	return 0, false
}
