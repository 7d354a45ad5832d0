// Package lang classifies prompt text into one of the supported locales using
// character-set heuristics and small per-language function word lists. It is
// pure and deterministic; no external calls.
package lang

import (
	"strings"
	"unicode"
)

// Language is a supported prompt locale.
type Language string

const (
	English            Language = "en"
	ChineseTraditional Language = "zh-TW"
	Japanese           Language = "ja"
	Korean             Language = "ko"
	Spanish            Language = "es"
	Unknown            Language = "unknown"
)

// Supported reports whether l is one of the five supported locales.
func Supported(l Language) bool {
	switch l {
	case English, ChineseTraditional, Japanese, Korean, Spanish:
		return true
	}
	return false
}

// Spanish-only characters. Shared accents (é, á...) also occur in French or
// Portuguese, but within the supported set they signal Spanish.
var spanishRunes = map[rune]struct{}{
	'ñ': {}, 'Ñ': {}, '¿': {}, '¡': {},
	'á': {}, 'é': {}, 'í': {}, 'ó': {}, 'ú': {}, 'ü': {},
}

var spanishFunctionWords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {}, "un": {}, "una": {},
	"de": {}, "del": {}, "en": {}, "que": {}, "es": {}, "por": {},
	"con": {}, "para": {}, "sobre": {}, "muy": {}, "y": {},
}

var englishFunctionWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "on": {},
	"at": {}, "is": {}, "are": {}, "and": {}, "to": {}, "by": {},
	"with": {}, "for": {},
}

// Detect classifies text into a supported locale, or Unknown when no heuristic
// produces a signal. Callers treat Unknown as English for normalization.
func Detect(text string) Language {
	var hangul, kana, han, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	// Kana is unique to Japanese; Japanese text freely mixes kana and han,
	// so kana takes priority over the han count.
	if kana > 0 {
		return Japanese
	}
	if hangul > 0 {
		return Korean
	}
	if han > 0 {
		return ChineseTraditional
	}
	if latin == 0 {
		return Unknown
	}

	esScore, enScore := 0, 0
	for _, r := range text {
		if _, ok := spanishRunes[r]; ok {
			esScore += 2
		}
	}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if _, ok := spanishFunctionWords[word]; ok {
			esScore++
		}
		if _, ok := englishFunctionWords[word]; ok {
			enScore++
		}
	}

	switch {
	case esScore > enScore:
		return Spanish
	case enScore > 0:
		return English
	default:
		return Unknown
	}
}
