package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fold normalizes s for case-insensitive comparison. Casers are stateful,
// so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// Tokenize splits text into folded word tokens. Apostrophes and hyphens are
// kept inside words ("don't", "real-time") and trimmed at the edges.
func Tokenize(text string) []string {
	text = fold(text)
	var tokens []string
	var b strings.Builder
	flush := func() {
		tok := strings.Trim(b.String(), "'-’")
		tok = strings.TrimSuffix(tok, "'s")
		tok = strings.TrimSuffix(tok, "’s")
		if tok != "" {
			tokens = append(tokens, tok)
		}
		b.Reset()
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
		case (r == '\'' || r == '-' || r == '’') && b.Len() > 0:
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func keep(tok string, minRunes int) bool {
	if utf8.RuneCountInString(tok) < minRunes {
		return false
	}
	if _, stop := stopwords[tok]; stop {
		return false
	}
	return strings.IndexFunc(tok, unicode.IsLetter) >= 0
}
