package importer

import "strings"

// Normalize trims validated data into its final domain shape. It is total:
// schema-valid input always produces a usable result. Height is dropped here
// on purpose; it is never persisted.
func Normalize(p *Payload) *Normalized {
	n := &Normalized{
		Student: NormalizedStudent{
			Name:   strings.TrimSpace(p.Student.Name),
			Weight: p.Student.Weight,
			Age:    p.Student.Age,
			Goal:   trimOpt(p.Student.Goal),
		},
		Supplements: normalizeSupplements(p.Supplements),
		Medications: normalizeSupplements(p.Medications),
		Notes:       trimOpt(p.Notes),
	}
	n.Diet = normalizeDiet(p.Diet)
	return n
}

func normalizeDiet(d *DietDraft) *NormalizedDiet {
	if d == nil {
		return nil
	}
	meals := make([]NormalizedMeal, 0, len(d.Meals))
	for _, meal := range d.Meals {
		foods := make([]NormalizedFood, 0, len(meal.Foods))
		for _, food := range meal.Foods {
			name := strings.TrimSpace(food.Name)
			quantity := strings.TrimSpace(food.Quantity)
			if name == "" || quantity == "" {
				continue
			}
			foods = append(foods, NormalizedFood{Name: name, Quantity: quantity})
		}
		if len(foods) == 0 {
			continue
		}
		meals = append(meals, NormalizedMeal{
			Name:  strings.TrimSpace(meal.Name),
			Foods: foods,
		})
	}
	if len(meals) == 0 {
		return nil
	}

	name := DefaultDietName
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" {
		name = strings.TrimSpace(*d.Name)
	}
	out := &NormalizedDiet{
		Name:  name,
		Goal:  trimOpt(d.Goal),
		Meals: meals,
	}
	if d.Macros != nil {
		out.Macros = *d.Macros
	}
	return out
}

func normalizeSupplements(entries []SupplementDraft) []NormalizedSupplement {
	out := make([]NormalizedSupplement, 0, len(entries))
	for _, s := range entries {
		name := strings.TrimSpace(s.Name)
		dosage := strings.TrimSpace(s.Dosage)
		if name == "" || dosage == "" {
			continue
		}
		out = append(out, NormalizedSupplement{
			Name:   name,
			Dosage: dosage,
			Note:   trimOpt(s.Note),
		})
	}
	return out
}

func trimOpt(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
