package prompt

// Curated starter prompts per category, shown to users who have not typed
// anything yet. Keep each list short; the UI displays them as suggestion
// chips.
var topics = map[string][]string{
	"animals": {
		"a fluffy cat stretching in morning sunlight",
		"a golden retriever puppy chasing butterflies",
		"a parrot with rainbow feathers on a branch",
		"a horse galloping across a misty field",
	},
	"nature": {
		"cherry blossoms falling over a quiet pond",
		"waves crashing against a rocky coastline at dawn",
		"a mountain peak above a sea of clouds",
		"a field of sunflowers under a summer sky",
	},
	"urban": {
		"a rainy neon-lit street at midnight",
		"a rooftop view of a glowing city skyline",
		"a crowded crosswalk in the evening rush",
		"an old tram winding through narrow streets",
	},
	"people": {
		"a dancer mid-leap on an empty stage",
		"a street musician playing violin in the snow",
		"a chef plating a dish in a busy kitchen",
		"an elderly couple walking hand in hand",
	},
	"fantasy": {
		"a dragon circling a castle in the clouds",
		"a wizard reading by candlelight in a tower",
		"a fairy garden glowing under a full moon",
		"a knight crossing an enchanted forest",
	},
	"sci-fi": {
		"a robot tending a garden on a space station",
		"a spaceship landing on a crimson desert planet",
		"a cyborg looking out over a futuristic city",
		"an alien market under two suns",
	},
	"food": {
		"a steaming bowl of ramen with chashu and egg",
		"a slice of chocolate cake with melting frosting",
		"fresh sushi arranged on a wooden board",
		"latte art being poured in a cozy cafe",
	},
}

// TopicsForCategory returns the curated starter prompts for a category, or
// nil when the category is unknown.
func TopicsForCategory(slug string) []string {
	list, ok := topics[slug]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}
