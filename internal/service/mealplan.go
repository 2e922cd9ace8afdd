package service

import (
	"strings"

	"github.com/sugarsense/backend/internal/types"
)

// Diet choices.
const (
	DietVeg    = "veg"
	DietNonVeg = "nonveg"
)

// Risk levels used when tailoring the meal plan.
const (
	RiskNone = "none"
	RiskLow  = "low"
)

const (
	safeAlternative = "safe alternative"
	cleanEatingNote = "You're doing great! Keep eating clean 🌱"
)

type meals struct {
	Morning, Lunch, Evening, Dinner, Juice string
}

var vegPlan = meals{
	Morning: "Oats with almond milk",
	Lunch:   "Quinoa & paneer salad",
	Evening: "Methi water with roasted chana",
	Dinner:  "Khichdi with bottle gourd",
	Juice:   "Amla-mint shot",
}

var nonVegPlan = meals{
	Morning: "Boiled eggs & multigrain toast",
	Lunch:   "Grilled chicken & veggies",
	Evening: "Buttermilk with flaxseeds",
	Dinner:  "Steamed fish & brown rice",
	Juice:   "Bitter gourd + lemon blend",
}

// meatAllergens are swapped out of non-vegetarian meals whenever the user lists any allergy.
var meatAllergens = []string{"mutton", "fish", "egg"}

var moodTips = map[string]string{
	"Happy":     "Keep smiling! Share your joy today 😊",
	"Stressed":  "Try breathing exercises or a short walk 🌿",
	"Tired":     "Rest well, and hydrate. A power nap helps 😴",
	"Energetic": "Perfect time for a light workout 💪",
}

// MoodTip returns the wellness tip for a mood, or "" for moods without one.
func MoodTip(mood string) string {
	return moodTips[mood]
}

// ParseAllergies splits a comma separated allergy list into trimmed lowercase names.
func ParseAllergies(allergy string) []string {
	var out []string
	for _, a := range strings.Split(allergy, ",") {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// BuildMealPlan returns the fixed plan for diet with every word naming an allergen
// replaced by a safe alternative. Any diet other than veg gets the non-vegetarian plan.
func BuildMealPlan(diet, allergy, risk string) *types.MealPlan {
	base := nonVegPlan
	if diet == DietVeg {
		base = vegPlan
	}

	allergies := ParseAllergies(allergy)
	if diet != DietVeg && len(allergies) > 0 {
		allergies = append(allergies, meatAllergens...)
	}

	clean := func(meal string) string {
		for _, a := range allergies {
			meal = replaceAllergen(meal, a, safeAlternative)
		}
		return meal
	}

	plan := &types.MealPlan{
		Morning: clean(base.Morning),
		Lunch:   clean(base.Lunch),
		Evening: clean(base.Evening),
		Dinner:  clean(base.Dinner),
		Juice:   clean(base.Juice),
	}
	if risk == RiskNone {
		plan.Note = cleanEatingNote
	}
	return plan
}

// RiskLevelForLabel maps the latest prediction label to the meal plan risk level.
// No prediction, or a very low one, counts as no risk.
func RiskLevelForLabel(label string) string {
	switch label {
	case "", LabelVeryLow:
		return RiskNone
	case LabelModerate:
		return RiskLow
	default:
		return "high"
	}
}

// replaceAllergen replaces every word of s that begins or ends with allergen, ignoring
// case. "eggs" and "Buttermilk" match "egg" and "milk"; "veggies" does not match "egg".
func replaceAllergen(s, allergen, replacement string) string {
	if allergen == "" {
		return s
	}
	lower := strings.ToLower(s)
	needle := strings.ToLower(allergen)

	var b strings.Builder
	written, from := 0, 0
	for {
		j := strings.Index(lower[from:], needle)
		if j < 0 {
			break
		}
		start, end := from+j, from+j+len(needle)
		from = end
		if !wordStart(lower, start) && !wordEnd(lower, end) {
			continue
		}
		for start > written && isWordByte(lower[start-1]) {
			start--
		}
		for end < len(lower) && isWordByte(lower[end]) {
			end++
		}
		b.WriteString(s[written:start])
		b.WriteString(replacement)
		written, from = end, end
	}
	if written == 0 {
		return s
	}
	b.WriteString(s[written:])
	return b.String()
}

func wordStart(s string, i int) bool {
	return i == 0 || !isWordByte(s[i-1])
}

func wordEnd(s string, i int) bool {
	return i == len(s) || !isWordByte(s[i])
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
