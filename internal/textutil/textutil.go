// Package textutil provides Spanish text normalization helpers shared by
// the matcher chain, the catalog and the response formatter.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFD and drops the combining marks, so that
// "Perico" and "perico", "inscripción" and "inscripcion" compare equal.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lowercases s and strips diacritics. Pure and total: any
// input yields a usable result, and ASCII text passes through unchanged
// except for case.
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	folded, _, err := transform.String(foldMarks, lowered)
	if err != nil {
		// Transform only fails on malformed UTF-8; keep the lowered
		// original so matching still sees something.
		return lowered
	}
	return folded
}

// StripTags removes anything shaped like an HTML/XML tag and collapses
// the surrounding whitespace to single spaces.
func StripTags(s string) string {
	cleaned := tagPattern.ReplaceAllString(s, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// isWordRune reports whether r belongs to a word for boundary purposes.
// Matching runs on normalized text, so letters are plain ASCII by then,
// but digits and the occasional stray letter still count.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ContainsWord reports whether word occurs in text delimited by
// non-word runes on both sides. Both arguments are expected to be
// already normalized; the check is a plain substring scan with
// boundary inspection, not a regexp.
func ContainsWord(text, word string) bool {
	return IndexWord(text, word) >= 0
}

// IndexWord returns the byte index of the first boundary-delimited
// occurrence of word in text, or -1.
func IndexWord(text, word string) int {
	if word == "" {
		return -1
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(word)

		beforeOK := idx == 0 || !isWordRune(lastRune(text[:idx]))
		afterOK := end == len(text) || !isWordRune(firstRune(text[end:]))
		if beforeOK && afterOK {
			return idx
		}
		start = idx + 1
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
