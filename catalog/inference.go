package catalog

import "strings"

// Category names match the seeded FoodType rows.
const (
	CategoryProtein   = "Protein"
	CategoryCarb      = "Carbohydrate"
	CategoryFat       = "Fat"
	CategoryFruit     = "Fruit"
	CategoryVegetable = "Vegetable"
	CategoryDairy     = "Dairy"
)

// categoryKeywords drives rule-based category inference for auto-created
// foods. Portuguese and English variants are both listed because extraction
// output arrives in either language. Order of evaluation is fixed; the first
// family with a hit wins.
var categoryOrder = []string{
	CategoryProtein,
	CategoryDairy,
	CategoryFruit,
	CategoryVegetable,
	CategoryFat,
	CategoryCarb,
}

var categoryKeywords = map[string][]string{
	CategoryProtein: {
		"frango", "chicken", "carne", "beef", "patinho", "file", "steak",
		"peixe", "fish", "tilapia", "atum", "tuna", "salmao", "salmon",
		"ovo", "egg", "clara", "peru", "turkey", "camarao", "shrimp",
		"porco", "pork", "whey", "proteina", "protein", "soja", "tofu",
	},
	CategoryDairy: {
		"leite", "milk", "queijo", "cheese", "iogurte", "yogurt",
		"requeijao", "coalhada", "ricota", "cottage",
	},
	CategoryFruit: {
		"banana", "maca", "apple", "laranja", "orange", "mamao", "papaya",
		"morango", "strawberry", "uva", "grape", "abacaxi", "pineapple",
		"melancia", "watermelon", "manga", "kiwi", "pera", "fruta", "fruit",
	},
	CategoryVegetable: {
		"alface", "lettuce", "brocolis", "broccoli", "cenoura", "carrot",
		"tomate", "tomato", "couve", "espinafre", "spinach", "abobrinha",
		"zucchini", "pepino", "cucumber", "beterraba", "legumes", "salada",
		"salad",
	},
	CategoryFat: {
		"azeite", "oleo", "oil", "castanha", "nuts", "amendoim", "peanut",
		"amendoa", "almond", "abacate", "avocado", "manteiga", "butter",
		"coco",
	},
	CategoryCarb: {
		"arroz", "rice", "batata", "potato", "pao", "bread", "aveia", "oat",
		"macarrao", "pasta", "tapioca", "mandioca", "cuscuz", "milho", "corn",
		"feijao", "bean", "lentilha", "lentil", "quinoa", "cereal", "granola",
	},
}

// plantProteinKeywords flips the protein origin of a protein-family food.
var plantProteinKeywords = []string{"soja", "tofu", "grao de bico", "lentilha", "ervilha", "soy"}

// NutritionProfile is the reference estimate attached to an auto-created
// food, expressed per 100 g of the reference portion.
type NutritionProfile struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Reference macro estimates per category. Deliberately conservative; the
// catalog edit flow is where accurate values come from.
var categoryProfiles = map[string]NutritionProfile{
	CategoryProtein:   {Calories: 165, Protein: 26, Carbs: 0, Fat: 6},
	CategoryCarb:      {Calories: 130, Protein: 2.5, Carbs: 28, Fat: 0.3},
	CategoryFat:       {Calories: 600, Protein: 15, Carbs: 15, Fat: 55},
	CategoryFruit:     {Calories: 60, Protein: 0.8, Carbs: 14, Fat: 0.2},
	CategoryVegetable: {Calories: 30, Protein: 2, Carbs: 5, Fat: 0.3},
	CategoryDairy:     {Calories: 90, Protein: 5, Carbs: 6, Fat: 5},
}

// InferCategory maps a food name to a category via keyword families,
// defaulting to carbohydrate when nothing matches.
func InferCategory(name string) string {
	norm := NormalizeName(name)
	for _, category := range categoryOrder {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(norm, kw) {
				return category
			}
		}
	}
	return CategoryCarb
}

// InferProfile returns the reference macro estimate for a category.
func InferProfile(category string) NutritionProfile {
	if p, ok := categoryProfiles[category]; ok {
		return p
	}
	return categoryProfiles[CategoryCarb]
}

// InferProteinOrigin tags protein sources as animal or plant based. Foods
// outside the protein and dairy families carry no origin tag.
func InferProteinOrigin(name, category string) *string {
	switch category {
	case CategoryProtein:
		norm := NormalizeName(name)
		for _, kw := range plantProteinKeywords {
			if strings.Contains(norm, kw) {
				origin := "vegetal"
				return &origin
			}
		}
		origin := "animal"
		return &origin
	case CategoryDairy:
		origin := "animal"
		return &origin
	default:
		return nil
	}
}
