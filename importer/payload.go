// Package importer turns loosely-structured diet-plan extraction output into
// the canonical, referentially-safe shape the persistence layer accepts.
//
// The pipeline is sanitize -> validate -> normalize -> business rules. Each
// stage has a narrow contract: the sanitizer never fails, the schema validator
// is closed (unknown keys are rejected), the normalizer is total on
// schema-valid input, and the rule check reports domain plausibility issues
// without deciding severity.
package importer

// Field bounds for the canonical payload. The schema validator and the
// sanitizer share these so the two stages cannot drift apart.
const (
	MaxNameLen    = 255
	MaxGoalLen    = 1000
	MaxNoteLen    = 2000
	MaxDosageLen  = 255
	MinWeightKg   = 0
	MaxWeightKg   = 500
	MinHeightCm   = 0
	MaxHeightCm   = 300
	MinAgeYears   = 0
	MaxAgeYears   = 150
	MaxMacroValue = 1000000
)

// DefaultDietName is applied to plans that arrive without a name.
const DefaultDietName = "Dieta Importada"

// Payload is the canonical import shape. It is transient: produced by
// extraction (or posted directly by a client), consumed by the pipeline and
// discarded after persistence.
type Payload struct {
	Student     StudentDraft      `json:"aluno"`
	Diet        *DietDraft        `json:"dieta"`
	Supplements []SupplementDraft `json:"suplementos"`
	Medications []SupplementDraft `json:"medicamentos"`
	Notes       *string           `json:"observacoes"`
}

// StudentDraft carries the client header of a plan. Height is accepted on the
// wire but deliberately dropped at normalization; it is never persisted.
type StudentDraft struct {
	Name   string   `json:"nome"`
	Weight *float64 `json:"peso"`
	Height *float64 `json:"altura"`
	Age    *int     `json:"idade"`
	Goal   *string  `json:"objetivo"`
}

// DietDraft is the plan body. A diet that ends with zero meals is represented
// as a nil DietDraft, never as an empty shell.
type DietDraft struct {
	Name   *string     `json:"nome"`
	Goal   *string     `json:"objetivo"`
	Meals  []MealDraft `json:"refeicoes"`
	Macros *MacroDraft `json:"macros"`
}

// MacroDraft holds optional aggregate targets for the whole plan.
type MacroDraft struct {
	Protein  *float64 `json:"proteina"`
	Carbs    *float64 `json:"carboidrato"`
	Fat      *float64 `json:"gordura"`
	Calories *float64 `json:"calorias"`
}

// MealDraft is one meal with at least one food entry.
type MealDraft struct {
	Name  string           `json:"nome"`
	Foods []FoodEntryDraft `json:"alimentos"`
}

// FoodEntryDraft is a free-text food reference; Quantity keeps the magnitude
// and unit as written ("100g", "2 unidades").
type FoodEntryDraft struct {
	Name     string `json:"nome"`
	Quantity string `json:"quantidade"`
}

// SupplementDraft covers both supplements and medications.
type SupplementDraft struct {
	Name   string  `json:"nome"`
	Dosage string  `json:"dosagem"`
	Note   *string `json:"observacao"`
}

// Normalized is the final domain shape handed to persistence. Strings are
// trimmed, defaults applied, height dropped, and empty meals filtered out.
type Normalized struct {
	Student     NormalizedStudent      `json:"aluno"`
	Diet        *NormalizedDiet        `json:"dieta"`
	Supplements []NormalizedSupplement `json:"suplementos"`
	Medications []NormalizedSupplement `json:"medicamentos"`
	Notes       *string                `json:"observacoes"`
}

// NormalizedStudent has no height field on purpose.
type NormalizedStudent struct {
	Name   string   `json:"nome"`
	Weight *float64 `json:"peso"`
	Age    *int     `json:"idade"`
	Goal   *string  `json:"objetivo"`
}

// NormalizedDiet always has a non-empty name and at least one meal.
type NormalizedDiet struct {
	Name   string           `json:"nome"`
	Goal   *string          `json:"objetivo"`
	Meals  []NormalizedMeal `json:"refeicoes"`
	Macros MacroDraft       `json:"macros"`
}

// NormalizedMeal always has at least one food.
type NormalizedMeal struct {
	Name  string           `json:"nome"`
	Foods []NormalizedFood `json:"alimentos"`
}

// NormalizedFood keeps the quantity as written; the numeric value is parsed
// at assembly time by ParseQuantity.
type NormalizedFood struct {
	Name     string `json:"nome"`
	Quantity string `json:"quantidade"`
}

// NormalizedSupplement always has a name and dosage.
type NormalizedSupplement struct {
	Name   string  `json:"nome"`
	Dosage string  `json:"dosagem"`
	Note   *string `json:"observacao"`
}
