package prompt

import "demoengine/internal/pkg/lang"

// English stopwords are always removed: the canonical form is English, so they
// apply to every language after dictionary translation.
var englishStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"is": {}, "are": {}, "was": {}, "be": {}, "and": {}, "or": {}, "to": {},
	"by": {}, "with": {}, "for": {}, "from": {}, "this": {}, "that": {},
	"it": {}, "its": {}, "as": {}, "very": {}, "some": {}, "into": {},
	"over": {}, "under": {}, "near": {},
}

// Untranslated source-language function words that survive tokenization.
var languageStopwords = map[lang.Language]map[string]struct{}{
	lang.Spanish: {
		"el": {}, "la": {}, "los": {}, "las": {}, "un": {}, "una": {},
		"unos": {}, "unas": {}, "de": {}, "del": {}, "en": {}, "que": {},
		"es": {}, "por": {}, "con": {}, "para": {}, "y": {}, "o": {},
		"muy": {}, "se": {}, "al": {}, "su": {}, "sobre": {},
	},
	lang.Japanese: {
		"の": {}, "が": {}, "を": {}, "は": {}, "で": {}, "と": {}, "に": {},
		"へ": {}, "も": {},
	},
	lang.Korean: {
		"이": {}, "가": {}, "은": {}, "는": {}, "을": {}, "를": {}, "의": {},
		"에": {}, "와": {}, "과": {},
	},
	lang.ChineseTraditional: {
		"的": {}, "在": {}, "了": {}, "是": {}, "和": {}, "有": {},
	},
}

func isStopword(token string, language lang.Language) bool {
	if _, ok := englishStopwords[token]; ok {
		return true
	}
	if set, ok := languageStopwords[language]; ok {
		if _, ok := set[token]; ok {
			return true
		}
	}
	return false
}
