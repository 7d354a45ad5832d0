package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Language
	}{
		{"english", "a cute cat by the window", English},
		{"traditional chinese", "可愛的貓咪", ChineseTraditional},
		{"japanese hiragana", "かわいい猫", Japanese},
		{"japanese katakana", "ロボットが街を歩く", Japanese},
		{"korean", "귀여운 고양이", Korean},
		{"spanish diacritics", "un gato lindo en la ventana, ¡qué bonito!", Spanish},
		{"spanish function words", "el perro corre por la ciudad", Spanish},
		{"latin without signal", "cute cat sunset", Unknown},
		{"digits only", "12345", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.input); got != tt.expected {
				t.Errorf("Detect(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	input := "可愛的貓咪 cute cat"
	first := Detect(input)
	for i := 0; i < 10; i++ {
		if got := Detect(input); got != first {
			t.Fatalf("Detect is not deterministic: %q then %q", first, got)
		}
	}
}

func TestSupported(t *testing.T) {
	for _, l := range []Language{English, ChineseTraditional, Japanese, Korean, Spanish} {
		if !Supported(l) {
			t.Errorf("expected %q to be supported", l)
		}
	}
	if Supported(Unknown) {
		t.Error("unknown must not be a supported locale")
	}
}
