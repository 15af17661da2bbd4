package pdfsearch

import (
	"strings"
	"unicode"
)

// ApproximateMarker prefixes excerpts located only after stripping
// formatting characters, so callers can present them as lower confidence
// than exact hits.
const ApproximateMarker = "[Dopasowanie przybliżone]"

const (
	// maxMatches caps excerpts per document; repetitive PDFs would
	// otherwise flood the result list.
	maxMatches = 5

	// excerptContext is how many runes of surrounding text are kept on
	// each side of a hit.
	excerptContext = 40

	// minNormalizedLen is the shortest term allowed into the normalized
	// pass. Shorter tokens over-match badly once punctuation is stripped.
	minNormalizedLen = 4
)

// Match is a short window of document text around a located search term.
type Match struct {
	Excerpt     string `json:"excerpt"`
	Approximate bool   `json:"approximate"`
}

// Annotated renders the excerpt with the approximate marker prepended when
// the hit came from the normalized pass.
func (m Match) Annotated() string {
	if m.Approximate {
		return ApproximateMarker + " " + m.Excerpt
	}
	return m.Excerpt
}

// ExtractMatches locates searchText inside fullText and returns up to five
// excerpts in order of occurrence.
//
// The exact case-insensitive pass runs first. If it finds nothing and the
// term is longer than three characters, both text and term are canonicalized
// by dropping every non-alphanumeric rune and the search is repeated on the
// canonical streams; a canonical hit is mapped back to the corresponding
// region of the original text so the excerpt shows the document's own
// formatting (spaces, dashes, dots, slashes). PDF renderers routinely
// re-flow invoice and tax identifiers with such separators inserted.
func ExtractMatches(fullText, searchText string) []Match {
	if searchText == "" {
		return nil
	}

	text := []rune(fullText)
	lower := lowerRunes(text)
	needle := lowerRunes([]rune(searchText))

	matches := exactMatches(text, lower, needle)
	if len(matches) > 0 {
		return matches
	}

	if len(needle) < minNormalizedLen {
		return nil
	}
	return normalizedMatches(text, lower, needle)
}

func exactMatches(text, lower, needle []rune) []Match {
	var matches []Match
	for i := 0; i+len(needle) <= len(lower) && len(matches) < maxMatches; i++ {
		if !runesEqual(lower[i:i+len(needle)], needle) {
			continue
		}
		matches = append(matches, Match{
			Excerpt: excerpt(text, i, i+len(needle)),
		})
		i += len(needle) - 1
	}
	return matches
}

func normalizedMatches(text, lower, needle []rune) []Match {
	canonNeedle := make([]rune, 0, len(needle))
	for _, r := range needle {
		if isAlphanumeric(r) {
			canonNeedle = append(canonNeedle, r)
		}
	}
	if len(canonNeedle) == 0 {
		return nil
	}

	// Canonical haystack plus a map from canonical position back to the
	// original rune index, needed to recover the formatted region.
	canon := make([]rune, 0, len(lower))
	origIdx := make([]int, 0, len(lower))
	for i, r := range lower {
		if isAlphanumeric(r) {
			canon = append(canon, r)
			origIdx = append(origIdx, i)
		}
	}

	var matches []Match
	for i := 0; i+len(canonNeedle) <= len(canon) && len(matches) < maxMatches; i++ {
		if !runesEqual(canon[i:i+len(canonNeedle)], canonNeedle) {
			continue
		}
		start := origIdx[i]
		end := origIdx[i+len(canonNeedle)-1] + 1
		matches = append(matches, Match{
			Excerpt:     excerpt(text, start, end),
			Approximate: true,
		})
		i += len(canonNeedle) - 1
	}
	return matches
}

// excerpt cuts a bounded window of original text around the match span.
func excerpt(text []rune, start, end int) string {
	from := start - excerptContext
	if from < 0 {
		from = 0
	}
	to := end + excerptContext
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(string(text[from:to]))
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
