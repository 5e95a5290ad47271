package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns an utterance into lowercase word tokens
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer splits text into words and single punctuation marks, the way the
// Punkt word tokenizer does for Spanish: "¿Qué es?" -> ["¿", "qué", "es", "?"].
// Hyphens and apostrophes between word characters stay inside the word.
type WordTokenizer struct {
	caser cases.Caser
}

func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{caser: cases.Lower(language.Spanish)}
}

// Tokenize returns lowercase tokens
func (t *WordTokenizer) Tokenize(text string) []string {
	return Split(t.caser.String(text))
}

// Split returns the case-preserving tokens of text. Decomposed accents are
// composed first so "cuántica" typed as a + U+0301 yields the same token.
func Split(text string) []string {
	runes := []rune(norm.NFC.String(text))
	tokens := make([]string, 0, len(runes)/4+1)

	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			word.WriteRune(r)
		case isJoiner(r) && word.Len() > 0 && i+1 < len(runes) && isWordRune(runes[i+1]):
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isJoiner(r rune) bool {
	return r == '-' || r == '\'' || r == '’'
}

// IsPunct reports whether a token is a single punctuation or symbol mark
func IsPunct(token string) bool {
	for _, r := range token {
		if isWordRune(r) {
			return false
		}
	}
	return token != ""
}
