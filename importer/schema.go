package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MaxIssues bounds the reported issue list; validation keeps scanning but
// stops recording past this point.
const MaxIssues = 10

// Issue is one structural validation failure, addressed by field path.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Issue codes.
const (
	CodeInvalidJSON = "invalid_json"
	CodeUnknownKey  = "unknown_key"
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeTooLong     = "too_long"
	CodeOutOfRange  = "out_of_range"
	CodeMinItems    = "min_items"
)

// ValidateSchema checks raw JSON against the canonical closed schema and, on
// success, decodes it into a Payload. The schema rejects unknown keys at
// every nesting level; the persistence path must call this itself and never
// trust a prior caller's validation.
func ValidateSchema(raw []byte) (*Payload, []Issue) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, []Issue{{Path: "root", Code: CodeInvalidJSON, Message: "payload is not valid JSON"}}
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, []Issue{{Path: "root", Code: CodeInvalidType, Message: "payload must be a JSON object"}}
	}

	v := &schemaValidator{}
	v.checkKeys("", root, "aluno", "dieta", "suplementos", "medicamentos", "observacoes")

	student, present := root["aluno"]
	if !present || student == nil {
		v.add("aluno", CodeRequired, "client section is required")
	} else {
		v.validateStudent("aluno", student)
	}

	if diet, present := root["dieta"]; present && diet != nil {
		v.validateDiet("dieta", diet)
	}
	v.validateSupplements("suplementos", root["suplementos"])
	v.validateSupplements("medicamentos", root["medicamentos"])
	v.optionalString("observacoes", root["observacoes"], MaxNoteLen)

	if len(v.issues) > 0 {
		return nil, v.issues
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, []Issue{{Path: "root", Code: CodeInvalidType, Message: "payload does not match the canonical schema"}}
	}
	return &p, nil
}

type schemaValidator struct {
	issues []Issue
}

func (v *schemaValidator) add(path, code, message string) {
	if len(v.issues) >= MaxIssues {
		return
	}
	v.issues = append(v.issues, Issue{Path: path, Code: code, Message: message})
}

// checkKeys enforces the closed-schema rule: any key outside the allowed set
// is reported under its own path.
func (v *schemaValidator) checkKeys(prefix string, m map[string]any, allowed ...string) {
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}
	for k := range m {
		if !set[k] {
			v.add(joinPath(prefix, k), CodeUnknownKey, fmt.Sprintf("unknown field %q", k))
		}
	}
}

func (v *schemaValidator) validateStudent(path string, raw any) {
	m, ok := raw.(map[string]any)
	if !ok {
		v.add(path, CodeInvalidType, "client section must be an object")
		return
	}
	v.checkKeys(path, m, "nome", "peso", "altura", "idade", "objetivo")
	// Name presence is a business rule, not a schema rule: the sanitizer may
	// legitimately emit an empty name and the rule check reports it.
	v.optionalString(joinPath(path, "nome"), m["nome"], MaxNameLen)
	v.optionalNumber(joinPath(path, "peso"), m["peso"], MinWeightKg, MaxWeightKg)
	v.optionalNumber(joinPath(path, "altura"), m["altura"], MinHeightCm, MaxHeightCm)
	v.optionalInt(joinPath(path, "idade"), m["idade"], MinAgeYears, MaxAgeYears)
	v.optionalString(joinPath(path, "objetivo"), m["objetivo"], MaxGoalLen)
}

func (v *schemaValidator) validateDiet(path string, raw any) {
	m, ok := raw.(map[string]any)
	if !ok {
		v.add(path, CodeInvalidType, "diet section must be an object")
		return
	}
	v.checkKeys(path, m, "nome", "objetivo", "refeicoes", "macros")
	v.optionalString(joinPath(path, "nome"), m["nome"], MaxNameLen)
	v.optionalString(joinPath(path, "objetivo"), m["objetivo"], MaxGoalLen)

	mealsPath := joinPath(path, "refeicoes")
	meals, ok := m["refeicoes"].([]any)
	if !ok {
		v.add(mealsPath, CodeInvalidType, "meals must be an array")
	} else if len(meals) == 0 {
		v.add(mealsPath, CodeMinItems, "a diet must have at least one meal")
	} else {
		for i, meal := range meals {
			v.validateMeal(fmt.Sprintf("%s[%d]", mealsPath, i), meal)
		}
	}

	if macros, present := m["macros"]; present && macros != nil {
		v.validateMacros(joinPath(path, "macros"), macros)
	}
}

func (v *schemaValidator) validateMeal(path string, raw any) {
	m, ok := raw.(map[string]any)
	if !ok {
		v.add(path, CodeInvalidType, "meal must be an object")
		return
	}
	v.checkKeys(path, m, "nome", "alimentos")
	// Unnamed meals are allowed here; assembly falls back to a positional
	// label and the rule check reports the missing name.
	v.optionalString(joinPath(path, "nome"), m["nome"], MaxNameLen)

	foodsPath := joinPath(path, "alimentos")
	foods, ok := m["alimentos"].([]any)
	if !ok {
		v.add(foodsPath, CodeInvalidType, "foods must be an array")
		return
	}
	// Enforced again here even though the sanitizer already filters empty
	// meals: a sanitizer bug must not slip an empty meal into persistence.
	if len(foods) == 0 {
		v.add(foodsPath, CodeMinItems, "a meal must have at least one food item")
		return
	}
	for i, food := range foods {
		fp := fmt.Sprintf("%s[%d]", foodsPath, i)
		fm, ok := food.(map[string]any)
		if !ok {
			v.add(fp, CodeInvalidType, "food item must be an object")
			continue
		}
		v.checkKeys(fp, fm, "nome", "quantidade")
		v.requiredString(joinPath(fp, "nome"), fm["nome"], MaxNameLen)
		v.requiredString(joinPath(fp, "quantidade"), fm["quantidade"], MaxNameLen)
	}
}

func (v *schemaValidator) validateMacros(path string, raw any) {
	m, ok := raw.(map[string]any)
	if !ok {
		v.add(path, CodeInvalidType, "macros must be an object")
		return
	}
	v.checkKeys(path, m, "proteina", "carboidrato", "gordura", "calorias")
	v.optionalNumber(joinPath(path, "proteina"), m["proteina"], 0, MaxMacroValue)
	v.optionalNumber(joinPath(path, "carboidrato"), m["carboidrato"], 0, MaxMacroValue)
	v.optionalNumber(joinPath(path, "gordura"), m["gordura"], 0, MaxMacroValue)
	v.optionalNumber(joinPath(path, "calorias"), m["calorias"], 0, MaxMacroValue)
}

func (v *schemaValidator) validateSupplements(path string, raw any) {
	if raw == nil {
		return
	}
	entries, ok := raw.([]any)
	if !ok {
		v.add(path, CodeInvalidType, "must be an array")
		return
	}
	for i, entry := range entries {
		ep := fmt.Sprintf("%s[%d]", path, i)
		m, ok := entry.(map[string]any)
		if !ok {
			v.add(ep, CodeInvalidType, "entry must be an object")
			continue
		}
		v.checkKeys(ep, m, "nome", "dosagem", "observacao")
		v.requiredString(joinPath(ep, "nome"), m["nome"], MaxNameLen)
		v.requiredString(joinPath(ep, "dosagem"), m["dosagem"], MaxDosageLen)
		v.optionalString(joinPath(ep, "observacao"), m["observacao"], MaxNoteLen)
	}
}

func (v *schemaValidator) requiredString(path string, raw any, max int) {
	s, ok := raw.(string)
	if !ok {
		v.add(path, CodeRequired, "is required and must be a string")
		return
	}
	if strings.TrimSpace(s) == "" {
		v.add(path, CodeRequired, "must not be empty")
		return
	}
	if len([]rune(s)) > max {
		v.add(path, CodeTooLong, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *schemaValidator) optionalString(path string, raw any, max int) {
	if raw == nil {
		return
	}
	s, ok := raw.(string)
	if !ok {
		v.add(path, CodeInvalidType, "must be a string or null")
		return
	}
	if len([]rune(s)) > max {
		v.add(path, CodeTooLong, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *schemaValidator) optionalNumber(path string, raw any, min, max float64) {
	if raw == nil {
		return
	}
	n, ok := raw.(float64)
	if !ok {
		v.add(path, CodeInvalidType, "must be a number or null")
		return
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < min || n > max {
		v.add(path, CodeOutOfRange, fmt.Sprintf("must be between %g and %g", min, max))
	}
}

func (v *schemaValidator) optionalInt(path string, raw any, min, max int) {
	if raw == nil {
		return
	}
	n, ok := raw.(float64)
	if !ok {
		v.add(path, CodeInvalidType, "must be an integer or null")
		return
	}
	if n != math.Trunc(n) {
		v.add(path, CodeInvalidType, "must be a whole number")
		return
	}
	if n < float64(min) || n > float64(max) {
		v.add(path, CodeOutOfRange, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
