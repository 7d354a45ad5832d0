package prompt

// MinCategoryConfidence is the Jaccard score below which no category is
// assigned.
const MinCategoryConfidence = 0.15

type categoryDef struct {
	Slug     string
	Style    string
	Keywords []string
}

// Declaration order matters: score ties are broken by the first-registered
// category. Styles are GoEnhance style slugs.
var categories = []categoryDef{
	{
		Slug:     "animals",
		Style:    "cute_anime",
		Keywords: []string{"cat", "dog", "pet", "bird", "horse"},
	},
	{
		Slug:     "nature",
		Style:    "watercolor",
		Keywords: []string{"mountain", "ocean", "forest", "sunset", "flower"},
	},
	{
		Slug:     "urban",
		Style:    "cyberpunk",
		Keywords: []string{"city", "street", "building", "neon", "skyline"},
	},
	{
		Slug:     "people",
		Style:    "realistic",
		Keywords: []string{"woman", "man", "portrait", "dancer", "crowd"},
	},
	{
		Slug:     "fantasy",
		Style:    "anime_v5",
		Keywords: []string{"dragon", "wizard", "castle", "magic", "fairy"},
	},
	{
		Slug:     "sci-fi",
		Style:    "cinematic",
		Keywords: []string{"robot", "spaceship", "alien", "cyborg", "space"},
	},
	{
		Slug:     "food",
		Style:    "oil_painting",
		Keywords: []string{"food", "ramen", "sushi", "cake", "coffee"},
	},
}

// Categories returns the registered category slugs in declaration order.
func Categories() []string {
	slugs := make([]string, len(categories))
	for i, c := range categories {
		slugs[i] = c.Slug
	}
	return slugs
}

// StyleForCategory returns the suggested style slug for a category, or "".
func StyleForCategory(slug string) string {
	for _, c := range categories {
		if c.Slug == slug {
			return c.Style
		}
	}
	return ""
}

// CategoryKeywords returns sample keywords for a category, or nil.
func CategoryKeywords(slug string) []string {
	for _, c := range categories {
		if c.Slug == slug {
			return append([]string(nil), c.Keywords...)
		}
	}
	return nil
}

// Classify scores every category by Jaccard similarity between the prompt
// keywords and the category's representative keyword set and returns the best
// one with its suggested style. Ties keep the first-registered category. Below
// MinCategoryConfidence no category is assigned; the style suggestion is tied
// to the category and dropped with it.
func Classify(keywords []string) (category, style string, confidence float64) {
	if len(keywords) == 0 {
		return "", "", 0
	}

	keywordSet := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		keywordSet[k] = struct{}{}
	}

	best := -1
	bestScore := 0.0
	for i, c := range categories {
		score := jaccard(keywordSet, c.Keywords)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 || bestScore < MinCategoryConfidence {
		return "", "", bestScore
	}
	return categories[best].Slug, categories[best].Style, bestScore
}

func jaccard(set map[string]struct{}, other []string) float64 {
	intersection := 0
	for _, k := range other {
		if _, ok := set[k]; ok {
			intersection++
		}
	}
	union := len(set) + len(other) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
