package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNormalize_AppliesDietNameDefault(t *testing.T) {
	p := &Payload{
		Student: StudentDraft{Name: "Ana"},
		Diet: &DietDraft{
			Meals: []MealDraft{{Name: "Almoço", Foods: []FoodEntryDraft{{Name: "Arroz", Quantity: "100g"}}}},
		},
	}
	n := Normalize(p)
	require.NotNil(t, n.Diet)
	assert.Equal(t, DefaultDietName, n.Diet.Name)
}

func TestNormalize_TrimsAndKeepsExplicitName(t *testing.T) {
	p := &Payload{
		Student: StudentDraft{Name: "  Ana  ", Goal: strPtr("  bulking  ")},
		Diet: &DietDraft{
			Name:  strPtr("  Plano A  "),
			Meals: []MealDraft{{Name: " Almoço ", Foods: []FoodEntryDraft{{Name: " Arroz ", Quantity: " 100g "}}}},
		},
	}
	n := Normalize(p)
	assert.Equal(t, "Ana", n.Student.Name)
	assert.Equal(t, "bulking", *n.Student.Goal)
	assert.Equal(t, "Plano A", n.Diet.Name)
	assert.Equal(t, "Almoço", n.Diet.Meals[0].Name)
	assert.Equal(t, "Arroz", n.Diet.Meals[0].Foods[0].Name)
	assert.Equal(t, "100g", n.Diet.Meals[0].Foods[0].Quantity)
}

func TestNormalize_DropsHeight(t *testing.T) {
	p := &Payload{Student: StudentDraft{Name: "Ana", Height: floatPtr(170), Weight: floatPtr(82)}}
	n := Normalize(p)
	// NormalizedStudent deliberately has no height field; weight survives.
	require.NotNil(t, n.Student.Weight)
	assert.Equal(t, 82.0, *n.Student.Weight)
}

func TestNormalize_FiltersEmptyMealsAndDiet(t *testing.T) {
	p := &Payload{
		Student: StudentDraft{Name: "Ana"},
		Diet: &DietDraft{
			Meals: []MealDraft{
				{Name: "Almoço", Foods: []FoodEntryDraft{{Name: "   ", Quantity: "100g"}}},
			},
		},
	}
	n := Normalize(p)
	assert.Nil(t, n.Diet)
}

func TestNormalize_NilDietStaysNil(t *testing.T) {
	n := Normalize(&Payload{Student: StudentDraft{Name: "Ana"}})
	assert.Nil(t, n.Diet)
}
