// Package prompt turns raw multi-language prompts into a canonical English
// keyword representation and classifies them into a content category. All
// functions are pure, deterministic and side-effect free; dictionaries and
// category tables are immutable package data.
package prompt

import (
	"strings"
	"unicode"

	"demoengine/internal/pkg/lang"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analysis is the per-request result of normalizing and classifying a prompt.
// It is never persisted.
type Analysis struct {
	Original   string
	Normalized string
	Language   lang.Language
	Keywords   []string
	Category   string
	Style      string
	Confidence float64
}

// Analyze normalizes text and classifies the resulting keyword set.
func Analyze(text string) *Analysis {
	a := Normalize(text)
	a.Category, a.Style, a.Confidence = Classify(a.Keywords)
	return a
}

// Normalize maps raw prompt text to its canonical English-equivalent keyword
// form. The normalized string is the space-joined keyword list, which makes
// normalization a fixed point: Normalize(a.Normalized) yields the same
// keywords. Input length validation happens at the service boundary.
func Normalize(text string) *Analysis {
	detected := lang.Detect(text)
	effective := detected
	if effective == lang.Unknown {
		effective = lang.English
	}

	var tokens []string
	if dict, ok := cjkDictionaries[effective]; ok {
		tokens = scanPhrases(text, dict)
	} else {
		tokens = tokenizeLatin(text, effective)
	}

	keywords := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if token == "" || isStopword(token, effective) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	return &Analysis{
		Original:   text,
		Normalized: strings.Join(keywords, " "),
		Language:   detected,
		Keywords:   keywords,
	}
}

// scanPhrases walks the text with greedy longest-phrase dictionary matching.
// Latin runs inside CJK text are tokenized as-is, so mixed-language prompts
// keep per-token matches from whichever dictionary applies.
func scanPhrases(text string, dict map[string]string) []string {
	maxLen := maxPhraseRunes(dict)
	src := []rune(text)
	tokens := make([]string, 0, 8)
	var latin strings.Builder

	flushLatin := func() {
		if latin.Len() > 0 {
			tokens = append(tokens, splitWords(foldLatin(latin.String()))...)
			latin.Reset()
		}
	}

	for i := 0; i < len(src); {
		r := src[i]
		if unicode.Is(unicode.Latin, r) || unicode.IsDigit(r) {
			latin.WriteRune(r)
			i++
			continue
		}
		flushLatin()
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			i++
			continue
		}

		matched := false
		limit := maxLen
		if rest := len(src) - i; rest < limit {
			limit = rest
		}
		for n := limit; n >= 1; n-- {
			phrase := string(src[i : i+n])
			if canonical, ok := dict[phrase]; ok {
				if canonical != "" {
					tokens = append(tokens, strings.Fields(canonical)...)
				}
				i += n
				matched = true
				break
			}
		}
		if !matched {
			// Unmatched run passes through unchanged; it simply will not
			// contribute to category or corpus matching.
			tokens = append(tokens, string(r))
			i++
		}
	}
	flushLatin()

	return tokens
}

// tokenizeLatin lowercases, folds diacritics, strips punctuation and applies
// the per-language word dictionary. Unmatched tokens pass through unchanged.
func tokenizeLatin(text string, language lang.Language) []string {
	words := splitWords(foldLatin(text))
	if language != lang.Spanish {
		return words
	}

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if canonical, ok := esDictionary[word]; ok {
			tokens = append(tokens, strings.Fields(canonical)...)
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// foldLatin lowercases and removes diacritics so dictionary keys and corpus
// text compare on the same alphabet.
func foldLatin(text string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, _ := transform.String(t, text)
	return strings.ToLower(folded)
}

// splitWords splits on anything that is not a letter or digit.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
