package nutrient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	idProtein  = 1003
	idFiber    = 1079
	idIron     = 1089
	idVitaminA = 1178
	idVitaminC = 1162
	idB6       = 1165
)

func TestThresholdSuppression(t *testing.T) {
	// Fiber at 1g is below its 2g floor and must vanish; protein at 10g stays.
	got := TopSignificant([]Measurement{
		{NutrientID: idFiber, Value: 1, Unit: "G"},
		{NutrientID: idProtein, Value: 10, Unit: "G"},
	}, 2)

	assert.Len(t, got, 1)
	assert.Equal(t, "Protein", got[0].Name)
}

func TestEmptyAndAllBelowThreshold(t *testing.T) {
	assert.Empty(t, TopSignificant(nil, 2))

	got := TopSignificant([]Measurement{
		{NutrientID: idFiber, Value: 0.5, Unit: "G"},
		{NutrientID: idProtein, Value: 2, Unit: "G"},
		{NutrientID: idVitaminC, Value: 4, Unit: "MG"},
	}, 2)
	assert.Empty(t, got)
}

func TestUncuratedNutrientsIgnored(t *testing.T) {
	// 1008 is Energy (kcal): large magnitude, not in the curated table.
	got := TopSignificant([]Measurement{
		{NutrientID: 1008, Value: 900, Unit: "KCAL"},
		{NutrientID: idIron, Value: 4, Unit: "MG"},
	}, 2)

	assert.Len(t, got, 1)
	assert.Equal(t, "Iron", got[0].Name)
}

func TestVitaminAUnitNormalization(t *testing.T) {
	// 3000 IU and its mcg equivalent (900 mcg RAE) should land in the same
	// ballpark: IU is divided by 100, mcg by 30.
	iu := TopSignificant([]Measurement{{NutrientID: idVitaminA, Value: 3000, Unit: "IU"}}, 1)
	mcg := TopSignificant([]Measurement{{NutrientID: idVitaminA, Value: 900, Unit: "UG"}}, 1)

	assert.Len(t, iu, 1)
	assert.Len(t, mcg, 1)
	// Both normalize to a score of 30; neither unit dominates the other.
	assert.Equal(t, iu[0].Name, mcg[0].Name)
}

func TestOrderingAndTruncation(t *testing.T) {
	got := TopSignificant([]Measurement{
		{NutrientID: idVitaminC, Value: 60, Unit: "MG"}, // score 30
		{NutrientID: idIron, Value: 8, Unit: "MG"},      // score 16
		{NutrientID: idProtein, Value: 20, Unit: "G"},   // score 30
		{NutrientID: idB6, Value: 1.5, Unit: "MG"},      // score 30
	}, 2)

	assert.Len(t, got, 2)
	// Three-way tie at 30: first-seen wins, so Vitamin C then Protein.
	assert.Equal(t, "Vitamin C", got[0].Name)
	assert.Equal(t, "Protein", got[1].Name)
}

func TestFewerThanKNeverPadded(t *testing.T) {
	got := TopSignificant([]Measurement{
		{NutrientID: idProtein, Value: 25, Unit: "G"},
	}, 5)

	assert.Len(t, got, 1)
}

func TestRankedCarriesExplanation(t *testing.T) {
	got := TopSignificant([]Measurement{
		{NutrientID: idFiber, Value: 6, Unit: "G"},
	}, 2)

	assert.Len(t, got, 1)
	assert.Equal(t, 6.0, got[0].Value)
	assert.Equal(t, "G", got[0].Unit)
	assert.Contains(t, got[0].Explanation, "digestive health")
}

func TestDisplayName(t *testing.T) {
	name, ok := DisplayName(idFiber)
	assert.True(t, ok)
	assert.Equal(t, "Fiber", name)

	_, ok = DisplayName(9999)
	assert.False(t, ok)
}
