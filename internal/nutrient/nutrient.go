package nutrient

import "sort"

// Measurement is a single nutrient reading as reported by the food catalog,
// already validated at the catalog boundary.
type Measurement struct {
	NutrientID int     `json:"nutrientId"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unitName"`
}

// Ranked is a nutrient that scored high enough to be worth surfacing,
// together with the plain-language explanation shown to the user.
type Ranked struct {
	NutrientID  int     `json:"nutrient_id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Explanation string  `json:"explanation"`
}

// DefaultTopK is how many nutrients the UI highlights per food.
const DefaultTopK = 2

type info struct {
	name        string
	explanation string
}

// USDA FoodData Central nutrient IDs. Nutrients outside this table are
// ignored regardless of magnitude.
var curated = map[int]info{
	1003: {"Protein", "Protein helps build and repair tissues, supports your immune system, and keeps you feeling satisfied after meals."},
	1079: {"Fiber", "Fiber supports digestive health, helps maintain steady blood sugar levels, and keeps you feeling full."},
	1087: {"Calcium", "Calcium builds strong bones and teeth, and plays a role in muscle function and nerve signaling."},
	1089: {"Iron", "Iron helps carry oxygen throughout your body and supports energy levels and immune function."},
	1090: {"Magnesium", "Magnesium supports muscle and nerve function, helps maintain steady energy, and promotes bone health."},
	1092: {"Potassium", "Potassium helps regulate blood pressure, supports heart health, and maintains fluid balance."},
	1095: {"Zinc", "Zinc supports immune function, wound healing, and plays a role in taste and smell."},
	1109: {"Vitamin B12", "Vitamin B12 supports nerve function, red blood cell formation, and energy metabolism."},
	1162: {"Vitamin C", "Vitamin C supports your immune system, helps your body absorb iron, and promotes healthy skin."},
	1165: {"Vitamin B6", "Vitamin B6 supports brain health, helps make neurotransmitters, and aids in protein metabolism."},
	1166: {"Folate", "Folate supports cell growth and DNA formation, and is especially important for brain health."},
	1178: {"Vitamin A", "Vitamin A supports vision, immune function, and healthy skin."},
	1180: {"Vitamin E", "Vitamin E acts as an antioxidant, protecting your cells from damage and supporting immune health."},
	1185: {"Vitamin K", "Vitamin K is essential for blood clotting and supports bone health."},
}

// significanceScore approximates how meaningful a measured amount is as a
// fraction of the recommended daily value. Below the per-nutrient minimum the
// amount is noise and scores zero.
func significanceScore(nutrientID int, value float64, unit string) float64 {
	switch nutrientID {
	case 1162: // Vitamin C: DV 90mg, anything over 10mg is worth noting
		if value > 10 {
			return value / 2
		}
		return 0
	case 1178: // Vitamin A: DV 900mcg; 1 IU = 0.3mcg
		if unit == "IU" {
			return value / 100
		}
		return value / 30
	case 1185: // Vitamin K: DV 120mcg
		return value / 5
	case 1166: // Folate: DV 400mcg
		return value / 10
	case 1092: // Potassium: DV 4700mg
		return value / 100
	case 1079: // Fiber: DV 28g, only counts above 2g
		if value > 2 {
			return value * 2
		}
		return 0
	case 1087: // Calcium: DV 1300mg
		return value / 30
	case 1089: // Iron: DV 18mg
		return value / 0.5
	case 1090: // Magnesium: DV 420mg
		return value / 10
	case 1003: // Protein: DV 50g, only counts above 3g
		if value > 3 {
			return value * 1.5
		}
		return 0
	case 1180: // Vitamin E: DV 15mg
		return value / 0.5
	case 1165: // Vitamin B6: DV 1.7mg
		return value / 0.05
	case 1095: // Zinc: DV 11mg
		return value / 0.3
	case 1109: // Vitamin B12: DV 2.4mcg
		return value / 0.1
	default:
		return 0
	}
}

// TopSignificant ranks the curated nutrients in measurements by significance
// score and returns at most k of them, highest first. Zero-score nutrients
// are dropped entirely; ties keep first-seen input order. The result may be
// shorter than k and is never padded.
func TopSignificant(measurements []Measurement, k int) []Ranked {
	if k <= 0 {
		k = DefaultTopK
	}

	type scored struct {
		Ranked
		score float64
	}

	var candidates []scored
	for _, m := range measurements {
		meta, ok := curated[m.NutrientID]
		if !ok {
			continue
		}
		s := significanceScore(m.NutrientID, m.Value, m.Unit)
		if s <= 0 {
			continue
		}
		candidates = append(candidates, scored{
			Ranked: Ranked{
				NutrientID:  m.NutrientID,
				Name:        meta.name,
				Value:       m.Value,
				Unit:        m.Unit,
				Explanation: meta.explanation,
			},
			score: s,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	result := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.Ranked)
	}
	return result
}

// DisplayName returns the curated name for a nutrient ID, if it has one.
func DisplayName(nutrientID int) (string, bool) {
	meta, ok := curated[nutrientID]
	if !ok {
		return "", false
	}
	return meta.name, true
}
