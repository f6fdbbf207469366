// Package services orchestrates the import flow: assembling the diet graph
// and committing it as one atomic unit.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/romuloroldao/Black-House-sub001/catalog"
	"github.com/romuloroldao/Black-House-sub001/importer"
	"github.com/romuloroldao/Black-House-sub001/logger"
	"github.com/romuloroldao/Black-House-sub001/models"
)

// FoodResolver is the matching engine surface the assembler depends on.
type FoodResolver interface {
	Resolve(ctx context.Context, name string, creatorID uint) (*models.Food, bool, error)
}

// DietStore is the persistence surface for the diet graph. During an import
// the implementation is bound to the transaction handle.
type DietStore interface {
	Create(ctx context.Context, diet *models.Diet) error
	CreateItems(ctx context.Context, items []models.DietItem) error
	CreateSupplements(ctx context.Context, rows []models.DietSupplement) error
}

// AssemblyStats reports what one import produced. Observational only; no
// control flow depends on it.
type AssemblyStats struct {
	MealsCreated       int `json:"meals_created"`
	ItemsCreated       int `json:"items_created"`
	FoodsCreated       int `json:"foods_created"`
	SupplementsCreated int `json:"supplements_created"`
	MedicationsCreated int `json:"medications_created"`
}

// Assembly creates the diet row, its items (resolving each food through the
// matching engine) and its supplement rows.
type Assembly struct {
	resolver FoodResolver
	diets    DietStore
}

func NewAssembly(resolver FoodResolver, diets DietStore) *Assembly {
	return &Assembly{resolver: resolver, diets: diets}
}

// Assemble persists the diet graph for one student. A nil diet produces no
// rows at all: supplements and medications hang off the diet row, so without
// one there is nothing to attach them to.
func (a *Assembly) Assemble(ctx context.Context, n *importer.Normalized, studentID, creatorID uint) (*models.Diet, *AssemblyStats, error) {
	stats := &AssemblyStats{}
	if n.Diet == nil {
		return nil, stats, nil
	}

	diet := &models.Diet{
		StudentID:      studentID,
		Name:           n.Diet.Name,
		Goal:           n.Diet.Goal,
		ProteinTarget:  n.Diet.Macros.Protein,
		CarbsTarget:    n.Diet.Macros.Carbs,
		FatTarget:      n.Diet.Macros.Fat,
		CaloriesTarget: n.Diet.Macros.Calories,
		CreatorID:      creatorID,
	}
	if err := a.diets.Create(ctx, diet); err != nil {
		return nil, nil, fmt.Errorf("creating diet %q: %w", diet.Name, err)
	}

	var items []models.DietItem
	for i, meal := range n.Diet.Meals {
		label := CanonicalMealLabel(meal.Name, i+1)
		for _, food := range meal.Foods {
			resolved, created, err := a.resolver.Resolve(ctx, food.Name, creatorID)
			if err != nil {
				return nil, nil, fmt.Errorf("meal %q, food %q: %w", meal.Name, food.Name, err)
			}
			if created {
				stats.FoodsCreated++
			}
			items = append(items, models.DietItem{
				DietID:    diet.ID,
				FoodID:    resolved.ID,
				Quantity:  importer.QuantityOrDefault(food.Quantity),
				MealLabel: label,
			})
		}
		stats.MealsCreated++
	}
	if err := a.diets.CreateItems(ctx, items); err != nil {
		return nil, nil, fmt.Errorf("creating diet items: %w", err)
	}
	stats.ItemsCreated = len(items)

	rows := supplementRows(diet.ID, models.SupplementKindSupplement, n.Supplements)
	rows = append(rows, supplementRows(diet.ID, models.SupplementKindMedication, n.Medications)...)
	if err := a.diets.CreateSupplements(ctx, rows); err != nil {
		return nil, nil, fmt.Errorf("creating supplement rows: %w", err)
	}
	stats.SupplementsCreated = len(n.Supplements)
	stats.MedicationsCreated = len(n.Medications)

	logger.Info("diet assembled",
		"diet_id", diet.ID,
		"meals", stats.MealsCreated,
		"items", stats.ItemsCreated,
		"foods_created", stats.FoodsCreated,
		"supplements", stats.SupplementsCreated,
		"medications", stats.MedicationsCreated,
	)
	return diet, stats, nil
}

func supplementRows(dietID uint, kind string, entries []importer.NormalizedSupplement) []models.DietSupplement {
	rows := make([]models.DietSupplement, 0, len(entries))
	for _, s := range entries {
		rows = append(rows, models.DietSupplement{
			DietID: dietID,
			Kind:   kind,
			Name:   s.Name,
			Dosage: s.Dosage,
			Note:   s.Note,
		})
	}
	return rows
}

var numberedMealPattern = regexp.MustCompile(`(?i)^\s*(?:refei[cç][aã]o|meal)\s*(\d+)\s*$`)

// mealLabelTable maps recognized meal names to their canonical numbered
// label. Portuguese and English variants are both listed because plans arrive
// in either language.
var mealLabelTable = map[string]string{
	"cafe da manha":   "Refeição 1",
	"breakfast":       "Refeição 1",
	"colacao":         "Refeição 2",
	"lanche da manha": "Refeição 2",
	"morning snack":   "Refeição 2",
	"almoco":          "Refeição 3",
	"lunch":           "Refeição 3",
	"lanche da tarde": "Refeição 4",
	"lanche":          "Refeição 4",
	"snack":           "Refeição 4",
	"pre treino":      "Refeição 5",
	"pre workout":     "Refeição 5",
	"pos treino":      "Refeição 6",
	"post workout":    "Refeição 6",
	"jantar":          "Refeição 7",
	"dinner":          "Refeição 7",
	"ceia":            "Refeição 8",
	"supper":          "Refeição 8",
}

// CanonicalMealLabel normalizes a meal name to its stored label.
// Numeric-suffixed names ("refeição 3", "meal 3") pass through as
// "Refeição 3"; named meals map through the fixed table; unrecognized names
// pass through verbatim. The position argument is the 1-based index used when
// the meal has no name at all.
func CanonicalMealLabel(name string, position int) string {
	if match := numberedMealPattern.FindStringSubmatch(name); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return fmt.Sprintf("Refeição %d", n)
		}
	}
	if label, ok := mealLabelTable[catalog.NormalizeName(name)]; ok {
		return label
	}
	if name == "" {
		return fmt.Sprintf("Refeição %d", position)
	}
	return name
}
