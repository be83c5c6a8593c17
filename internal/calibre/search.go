package calibre

import (
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes, removes combining marks, and recomposes, so
// accented haystack text matches an unaccented search term.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)

func removeDiacritics(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		return text
	}
	return out
}

// appendHaystack adds a normalized copy of text, plus a diacritic-stripped
// variant when stripping changes it. Empty strings are skipped.
func appendHaystack(haystack []string, text string) []string {
	if text == "" {
		return haystack
	}
	text = norm.NFKC.String(text)
	haystack = append(haystack, text)
	if stripped := removeDiacritics(text); stripped != text {
		haystack = append(haystack, stripped)
	}
	return haystack
}

func buildHaystack(b *Book) []string {
	var haystack []string
	haystack = appendHaystack(haystack, b.Title)
	haystack = appendHaystack(haystack, b.Comment)
	for _, author := range b.Authors {
		haystack = appendHaystack(haystack, author.Name)
	}
	for _, series := range b.Series {
		haystack = appendHaystack(haystack, series.Name)
	}
	for _, tag := range b.Tags {
		haystack = appendHaystack(haystack, tag.Name)
	}
	return haystack
}

// SearchBooks builds a predicate over books for the given search term, or
// nil when the term is empty (no filtering). The term is treated as a
// case-insensitive regular expression, deliberately unescaped, with
// find-anywhere semantics over the book's searchable text fields.
func SearchBooks(term string) (func(*Book) bool, error) {
	if term == "" {
		return nil, nil
	}
	pattern, err := regexp.Compile("(?i)" + norm.NFKC.String(term))
	if err != nil {
		return nil, err
	}
	return func(b *Book) bool {
		for _, text := range buildHaystack(b) {
			if pattern.MatchString(text) {
				return true
			}
		}
		return false
	}, nil
}
