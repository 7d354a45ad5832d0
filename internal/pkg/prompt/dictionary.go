package prompt

import "demoengine/internal/pkg/lang"

// Per-language phrase dictionaries mapping prompt phrases to canonical English
// keywords. These are declarative lookup tables, not machine translation:
// unmatched tokens pass through unchanged. Entries mapping to "" are particles
// dropped during normalization. Loaded once; never mutated at runtime.

var zhDictionary = map[string]string{
	"可愛的": "cute",
	"可愛":  "cute",
	"貓咪":  "cat",
	"貓":   "cat",
	"小貓":  "kitten",
	"狗":   "dog",
	"小狗":  "puppy",
	"鳥":   "bird",
	"馬":   "horse",
	"寵物":  "pet",
	"日落":  "sunset",
	"夕陽":  "sunset",
	"窗戶":  "window",
	"窗":   "window",
	"海洋":  "ocean",
	"海":   "ocean",
	"山":   "mountain",
	"森林":  "forest",
	"花":   "flower",
	"城市":  "city",
	"街道":  "street",
	"建築":  "building",
	"霓虹":  "neon",
	"機器人": "robot",
	"太空船": "spaceship",
	"太空":  "space",
	"外星人": "alien",
	"龍":   "dragon",
	"巫師":  "wizard",
	"城堡":  "castle",
	"魔法":  "magic",
	"仙女":  "fairy",
	"女人":  "woman",
	"男人":  "man",
	"舞者":  "dancer",
	"食物":  "food",
	"拉麵":  "ramen",
	"壽司":  "sushi",
	"蛋糕":  "cake",
	"咖啡":  "coffee",
	"美麗的": "beautiful",
	"美麗":  "beautiful",
	"的":   "",
	"在":   "",
	"一隻":  "",
	"一個":  "",
}

var jaDictionary = map[string]string{
	"かわいい":   "cute",
	"可愛い":    "cute",
	"猫":      "cat",
	"ねこ":     "cat",
	"子猫":     "kitten",
	"犬":      "dog",
	"いぬ":     "dog",
	"鳥":      "bird",
	"馬":      "horse",
	"ペット":    "pet",
	"夕日":     "sunset",
	"夕焼け":    "sunset",
	"窓":      "window",
	"海":      "ocean",
	"山":      "mountain",
	"森":      "forest",
	"花":      "flower",
	"街":      "city",
	"都市":     "city",
	"通り":     "street",
	"建物":     "building",
	"ネオン":    "neon",
	"ロボット":   "robot",
	"宇宙船":    "spaceship",
	"宇宙":     "space",
	"エイリアン":  "alien",
	"竜":      "dragon",
	"ドラゴン":   "dragon",
	"魔法使い":   "wizard",
	"城":      "castle",
	"魔法":     "magic",
	"妖精":     "fairy",
	"女性":     "woman",
	"男性":     "man",
	"ダンサー":   "dancer",
	"食べ物":    "food",
	"ラーメン":   "ramen",
	"寿司":     "sushi",
	"ケーキ":    "cake",
	"コーヒー":   "coffee",
	"美しい":    "beautiful",
	"の":      "",
	"が":      "",
	"を":      "",
	"は":      "",
	"で":      "",
	"と":      "",
	"に":      "",
	"歩く":     "walking",
	"座っている": "sitting",
	"座る":     "sitting",
}

var koDictionary = map[string]string{
	"귀여운":  "cute",
	"고양이":  "cat",
	"새끼고양이": "kitten",
	"강아지":  "puppy",
	"개":    "dog",
	"새":    "bird",
	"말":    "horse",
	"애완동물": "pet",
	"일몰":   "sunset",
	"노을":   "sunset",
	"창문":   "window",
	"바다":   "ocean",
	"산":    "mountain",
	"숲":    "forest",
	"꽃":    "flower",
	"도시":   "city",
	"거리":   "street",
	"건물":   "building",
	"네온":   "neon",
	"로봇":   "robot",
	"우주선":  "spaceship",
	"우주":   "space",
	"외계인":  "alien",
	"용":    "dragon",
	"마법사":  "wizard",
	"성":    "castle",
	"마법":   "magic",
	"요정":   "fairy",
	"여자":   "woman",
	"남자":   "man",
	"댄서":   "dancer",
	"음식":   "food",
	"라면":   "ramen",
	"초밥":   "sushi",
	"케이크":  "cake",
	"커피":   "coffee",
	"아름다운": "beautiful",
}

// Spanish entries are keyed by their diacritic-folded, lowercased form.
var esDictionary = map[string]string{
	"gato":     "cat",
	"gatito":   "kitten",
	"perro":    "dog",
	"cachorro": "puppy",
	"pajaro":   "bird",
	"caballo":  "horse",
	"mascota":  "pet",
	"lindo":    "cute",
	"linda":    "cute",
	"bonito":   "cute",
	"bonita":   "cute",
	"atardecer": "sunset",
	"ventana":  "window",
	"oceano":   "ocean",
	"mar":      "ocean",
	"montana":  "mountain",
	"bosque":   "forest",
	"flor":     "flower",
	"ciudad":   "city",
	"calle":    "street",
	"edificio": "building",
	"neon":     "neon",
	"robot":    "robot",
	"nave":     "spaceship",
	"espacio":  "space",
	"alienigena": "alien",
	"dragon":   "dragon",
	"mago":     "wizard",
	"castillo": "castle",
	"magia":    "magic",
	"hada":     "fairy",
	"mujer":    "woman",
	"hombre":   "man",
	"bailarina": "dancer",
	"comida":   "food",
	"sushi":    "sushi",
	"pastel":   "cake",
	"cafe":     "coffee",
	"hermoso":  "beautiful",
	"hermosa":  "beautiful",
}

// cjkDictionaries holds the languages normalized by greedy longest-phrase
// scanning rather than whitespace tokenization.
var cjkDictionaries = map[lang.Language]map[string]string{
	lang.ChineseTraditional: zhDictionary,
	lang.Japanese:           jaDictionary,
	lang.Korean:             koDictionary,
}

// maxPhraseRunes is the longest dictionary phrase, in runes, per language.
func maxPhraseRunes(dict map[string]string) int {
	longest := 1
	for phrase := range dict {
		if n := len([]rune(phrase)); n > longest {
			longest = n
		}
	}
	return longest
}
