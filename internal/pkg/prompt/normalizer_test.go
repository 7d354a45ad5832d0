package prompt

import (
	"reflect"
	"testing"

	"demoengine/internal/pkg/lang"
)

func TestNormalize_English(t *testing.T) {
	a := Normalize("A cat sits by the window, at sunset!")

	want := []string{"cat", "sits", "window", "sunset"}
	if !reflect.DeepEqual(a.Keywords, want) {
		t.Errorf("keywords = %v; want %v", a.Keywords, want)
	}
	if a.Normalized != "cat sits window sunset" {
		t.Errorf("normalized = %q", a.Normalized)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"A cute cat sitting by the window at sunset",
		"可愛的貓咪",
		"かわいい猫と夕日",
		"귀여운 고양이",
		"Un gato lindo en la ventana al atardecer",
	}

	for _, input := range inputs {
		first := Normalize(input)
		second := Normalize(first.Normalized)
		if second.Normalized != first.Normalized {
			t.Errorf("Normalize(%q) is not a fixed point: %q -> %q",
				input, first.Normalized, second.Normalized)
		}
		if !reflect.DeepEqual(second.Keywords, first.Keywords) {
			t.Errorf("keywords changed on renormalization of %q: %v -> %v",
				input, first.Keywords, second.Keywords)
		}
	}
}

func TestNormalize_CrossLanguageEquivalence(t *testing.T) {
	zh := Analyze("可愛的貓咪")
	en := Analyze("a cute cat")

	if zh.Language != lang.ChineseTraditional {
		t.Errorf("zh language = %q", zh.Language)
	}

	overlap := false
	for _, k := range zh.Keywords {
		if k == "cat" {
			overlap = true
		}
	}
	if !overlap {
		t.Errorf("zh keywords %v missing 'cat'", zh.Keywords)
	}

	if zh.Category != "animals" || en.Category != "animals" {
		t.Errorf("categories: zh=%q en=%q; want animals for both", zh.Category, en.Category)
	}
}

func TestNormalize_StopwordsOnly(t *testing.T) {
	a := Analyze("the of and in")
	if len(a.Keywords) != 0 {
		t.Errorf("keywords = %v; want empty", a.Keywords)
	}
	if a.Confidence != 0 {
		t.Errorf("confidence = %f; want 0", a.Confidence)
	}
}

func TestNormalize_Deduplicates(t *testing.T) {
	a := Normalize("cat cat dog cat")
	want := []string{"cat", "dog"}
	if !reflect.DeepEqual(a.Keywords, want) {
		t.Errorf("keywords = %v; want %v", a.Keywords, want)
	}
}

func TestNormalize_MixedLanguage(t *testing.T) {
	// Latin tokens inside a CJK prompt keep their own dictionary matches.
	a := Normalize("可愛的貓咪 robot")
	got := map[string]bool{}
	for _, k := range a.Keywords {
		got[k] = true
	}
	for _, want := range []string{"cute", "cat", "robot"} {
		if !got[want] {
			t.Errorf("keywords %v missing %q", a.Keywords, want)
		}
	}
}

func TestNormalize_SpanishDictionary(t *testing.T) {
	a := Normalize("Un gato lindo en la ventana")
	got := map[string]bool{}
	for _, k := range a.Keywords {
		got[k] = true
	}
	for _, want := range []string{"cat", "cute", "window"} {
		if !got[want] {
			t.Errorf("keywords %v missing %q", a.Keywords, want)
		}
	}
	if got["un"] || got["la"] || got["en"] {
		t.Errorf("spanish stopwords leaked into keywords: %v", a.Keywords)
	}
}
