package importer

import (
	"math"
	"strconv"
	"strings"
)

// Sanitize coerces arbitrary extractor output into the canonical payload
// shape. It never fails: on any unexpected structure the offending subtree is
// replaced by a minimal valid empty shape. No I/O happens here.
//
// Sanitize is idempotent: feeding its own output back in produces the same
// result.
func Sanitize(raw any) *Payload {
	root := asMap(raw)
	p := &Payload{
		Student:     sanitizeStudent(asMap(root["aluno"])),
		Diet:        sanitizeDiet(asMap(root["dieta"])),
		Supplements: sanitizeSupplements(asSlice(root["suplementos"])),
		Medications: sanitizeSupplements(asSlice(root["medicamentos"])),
		Notes:       sanitizeOptString(root["observacoes"], MaxNoteLen),
	}
	return p
}

func sanitizeStudent(m map[string]any) StudentDraft {
	return StudentDraft{
		Name:   sanitizeString(m["nome"], MaxNameLen),
		Weight: sanitizeNumber(m["peso"], MinWeightKg, MaxWeightKg),
		Height: sanitizeNumber(m["altura"], MinHeightCm, MaxHeightCm),
		Age:    sanitizeInt(m["idade"], MinAgeYears, MaxAgeYears),
		Goal:   sanitizeOptString(m["objetivo"], MaxGoalLen),
	}
}

func sanitizeDiet(m map[string]any) *DietDraft {
	if m == nil {
		return nil
	}
	meals := make([]MealDraft, 0)
	for _, entry := range asSlice(m["refeicoes"]) {
		meal := sanitizeMeal(asMap(entry))
		// A meal left without food entries is dropped from the output set.
		if len(meal.Foods) > 0 {
			meals = append(meals, meal)
		}
	}
	// A diet left without meals is dropped entirely.
	if len(meals) == 0 {
		return nil
	}
	return &DietDraft{
		Name:   sanitizeOptString(m["nome"], MaxNameLen),
		Goal:   sanitizeOptString(m["objetivo"], MaxGoalLen),
		Meals:  meals,
		Macros: sanitizeMacros(asMap(m["macros"])),
	}
}

func sanitizeMacros(m map[string]any) *MacroDraft {
	if m == nil {
		return nil
	}
	return &MacroDraft{
		Protein:  sanitizeNumber(m["proteina"], 0, MaxMacroValue),
		Carbs:    sanitizeNumber(m["carboidrato"], 0, MaxMacroValue),
		Fat:      sanitizeNumber(m["gordura"], 0, MaxMacroValue),
		Calories: sanitizeNumber(m["calorias"], 0, MaxMacroValue),
	}
}

func sanitizeMeal(m map[string]any) MealDraft {
	foods := make([]FoodEntryDraft, 0)
	for _, entry := range asSlice(m["alimentos"]) {
		fm := asMap(entry)
		food := FoodEntryDraft{
			Name:     sanitizeString(fm["nome"], MaxNameLen),
			Quantity: sanitizeString(fm["quantidade"], MaxNameLen),
		}
		// Entries missing either mandatory sub-field are filtered out.
		if food.Name != "" && food.Quantity != "" {
			foods = append(foods, food)
		}
	}
	return MealDraft{
		Name:  sanitizeString(m["nome"], MaxNameLen),
		Foods: foods,
	}
}

func sanitizeSupplements(entries []any) []SupplementDraft {
	out := make([]SupplementDraft, 0)
	for _, entry := range entries {
		m := asMap(entry)
		s := SupplementDraft{
			Name:   sanitizeString(m["nome"], MaxNameLen),
			Dosage: sanitizeString(m["dosagem"], MaxDosageLen),
			Note:   sanitizeOptString(m["observacao"], MaxNoteLen),
		}
		if s.Name != "" && s.Dosage != "" {
			out = append(out, s)
		}
	}
	return out
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// sanitizeString stringifies, trims and truncates a value. Empty, "null" and
// "undefined" collapse to "" for non-nullable fields.
func sanitizeString(v any, max int) string {
	s := stringify(v)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > max {
		s = strings.TrimSpace(string(r[:max]))
	}
	if strings.EqualFold(s, "null") || strings.EqualFold(s, "undefined") {
		return ""
	}
	return s
}

// sanitizeOptString is sanitizeString for nullable fields: empty results
// become nil.
func sanitizeOptString(v any, max int) *string {
	s := sanitizeString(v, max)
	if s == "" {
		return nil
	}
	return &s
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// sanitizeNumber parses a numeric value, accepting comma as the decimal
// separator, and clamps it to nil when non-finite, unparsable or outside
// [min, max].
func sanitizeNumber(v any, min, max float64) *float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < min || n > max {
		return nil
	}
	return &n
}

func sanitizeInt(v any, min, max int) *int {
	f := sanitizeNumber(v, float64(min), float64(max))
	if f == nil {
		return nil
	}
	n := int(math.Trunc(*f))
	return &n
}
