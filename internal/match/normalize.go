package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLength filters out tokens too short to carry meaning.
const minTokenLength = 2

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize case-folds the input, strips diacritics, replaces
// non-alphanumeric runes with spaces, and collapses whitespace.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	stripped, _, err := transform.String(diacriticStripper, lower)
	if err != nil {
		stripped = lower
	}
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Stem removes a trailing plural 's' from tokens longer than three runes,
// unless the token ends in "ss".
func Stem(token string) string {
	rs := []rune(token)
	if len(rs) > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") {
		return string(rs[:len(rs)-1])
	}
	return token
}

// Tokenize normalises the input, splits it into tokens, stems each one, and
// drops stopwords and tokens shorter than the minimum length.
func Tokenize(s string, d Dictionary) []string {
	fields := strings.Fields(Normalize(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := Stem(f)
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if d.IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
