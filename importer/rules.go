package importer

import "fmt"

// CheckRules runs domain-plausibility checks over a normalized payload and
// returns the violations found. It never hard-fails: the caller decides
// severity — the preview path reports the list as warnings alongside the
// data, the confirm path refuses to persist when the list is non-empty.
//
// The bounds here are intentionally independent of the schema bounds so the
// two layers can evolve separately.
func CheckRules(n *Normalized) []string {
	var warnings []string

	if n.Student.Name == "" {
		warnings = append(warnings, "client name is required")
	} else if len([]rune(n.Student.Name)) > MaxNameLen {
		warnings = append(warnings, fmt.Sprintf("client name exceeds %d characters", MaxNameLen))
	}
	if n.Student.Weight != nil && (*n.Student.Weight < 0 || *n.Student.Weight > 500) {
		warnings = append(warnings, fmt.Sprintf("client weight %.1f kg is outside the plausible range 0-500", *n.Student.Weight))
	}
	if n.Student.Age != nil && (*n.Student.Age < 0 || *n.Student.Age > 150) {
		warnings = append(warnings, fmt.Sprintf("client age %d is outside the plausible range 0-150", *n.Student.Age))
	}

	if n.Diet != nil {
		for i, meal := range n.Diet.Meals {
			if meal.Name == "" {
				warnings = append(warnings, fmt.Sprintf("meal %d has no name", i+1))
			}
			for j, food := range meal.Foods {
				if food.Name == "" {
					warnings = append(warnings, fmt.Sprintf("meal %d, item %d has no food name", i+1, j+1))
				}
				if food.Quantity == "" {
					warnings = append(warnings, fmt.Sprintf("meal %d, item %d has no quantity", i+1, j+1))
				}
			}
		}
		warnings = append(warnings, checkMacro("protein", n.Diet.Macros.Protein)...)
		warnings = append(warnings, checkMacro("carbohydrate", n.Diet.Macros.Carbs)...)
		warnings = append(warnings, checkMacro("fat", n.Diet.Macros.Fat)...)
		warnings = append(warnings, checkMacro("calorie", n.Diet.Macros.Calories)...)
	}

	for i, s := range append(append([]NormalizedSupplement{}, n.Supplements...), n.Medications...) {
		if s.Name == "" {
			warnings = append(warnings, fmt.Sprintf("supplement %d has no name", i+1))
		}
		if s.Dosage == "" {
			warnings = append(warnings, fmt.Sprintf("supplement %d has no dosage", i+1))
		}
	}

	return warnings
}

func checkMacro(label string, v *float64) []string {
	if v == nil || *v >= 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s target must not be negative", label)}
}
