package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RuleBasedProvider is the deterministic fallback extractor: a line-oriented
// parser for the plan layout nutritionists actually send (header fields, meal
// sections with bulleted foods, supplement/medication sections). It
// implements the same contract as the LLM provider so the chain can swap one
// for the other.
type RuleBasedProvider struct{}

func NewRuleBasedProvider() *RuleBasedProvider {
	return &RuleBasedProvider{}
}

func (p *RuleBasedProvider) Name() string { return "rule-based" }

var (
	clientNamePattern = regexp.MustCompile(`(?i)^(?:nome|paciente|aluno|cliente)\s*[:\-]\s*(.+)$`)
	weightPattern     = regexp.MustCompile(`(?i)^peso\s*[:\-]\s*(\d+(?:[.,]\d+)?)`)
	heightPattern     = regexp.MustCompile(`(?i)^altura\s*[:\-]\s*(\d+(?:[.,]\d+)?)`)
	agePattern        = regexp.MustCompile(`(?i)^idade\s*[:\-]\s*(\d+)`)
	goalPattern       = regexp.MustCompile(`(?i)^objetivo\s*[:\-]\s*(.+)$`)

	mealHeaderPattern = regexp.MustCompile(`(?i)^(refei[cç][aã]o\s*\d+|caf[eé]\s+da\s+manh[aã]|cola[cç][aã]o|almo[cç]o|lanche(?:\s+da\s+(?:manh[aã]|tarde))?|jantar|ceia|pr[eé][\s-]?treino|p[oó]s[\s-]?treino)\s*[:\-]?\s*$`)

	supplementSectionPattern = regexp.MustCompile(`(?i)^suplement(?:os|a[cç][aã]o)?\s*[:\-]?\s*$`)
	medicationSectionPattern = regexp.MustCompile(`(?i)^medica(?:mentos?|[cç][aã]o)\s*[:\-]?\s*$`)
	notesSectionPattern      = regexp.MustCompile(`(?i)^observa[cç](?:[aã]o|[oõ]es)\s*[:\-]?\s*(.*)$`)

	bulletPattern   = regexp.MustCompile(`^[-•*]\s*`)
	splitQtyPattern = regexp.MustCompile(`^(.+?)\s*[-–:]\s*(.*\d.*)$`)
	trailQtyPattern = regexp.MustCompile(`^(.+?)\s+(\d+(?:[.,]\d+)?\s*\S*)$`)
)

type parseSection int

const (
	sectionNone parseSection = iota
	sectionMeal
	sectionSupplements
	sectionMedications
	sectionNotes
)

// Extract parses the plan text without any external call. It fails only when
// the text yields neither a client name nor a single meal — the signal that
// this is not a plan layout it understands.
func (p *RuleBasedProvider) Extract(_ context.Context, text string) (map[string]any, error) {
	student := map[string]any{}
	var meals []any
	var currentMeal map[string]any
	var supplements, medications []any
	var notes []string

	section := sectionNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if match := mealHeaderPattern.FindStringSubmatch(line); match != nil {
			currentMeal = map[string]any{
				"nome":      strings.TrimSpace(match[1]),
				"alimentos": []any{},
			}
			meals = append(meals, currentMeal)
			section = sectionMeal
			continue
		}
		if supplementSectionPattern.MatchString(line) {
			section = sectionSupplements
			continue
		}
		if medicationSectionPattern.MatchString(line) {
			section = sectionMedications
			continue
		}
		if match := notesSectionPattern.FindStringSubmatch(line); match != nil {
			section = sectionNotes
			if rest := strings.TrimSpace(match[1]); rest != "" {
				notes = append(notes, rest)
			}
			continue
		}

		if section == sectionNone {
			if parseClientLine(student, line) {
				continue
			}
		}

		item := bulletPattern.ReplaceAllString(line, "")
		switch section {
		case sectionMeal:
			name, qty := splitNameQuantity(item)
			foods := currentMeal["alimentos"].([]any)
			currentMeal["alimentos"] = append(foods, map[string]any{
				"nome":       name,
				"quantidade": qty,
			})
		case sectionSupplements:
			supplements = append(supplements, parseSupplementLine(item))
		case sectionMedications:
			medications = append(medications, parseSupplementLine(item))
		case sectionNotes:
			notes = append(notes, item)
		}
	}

	if student["nome"] == nil && len(meals) == 0 {
		return nil, fmt.Errorf("text does not look like a nutrition plan")
	}

	result := map[string]any{
		"aluno":        student,
		"suplementos":  supplements,
		"medicamentos": medications,
	}
	if len(meals) > 0 {
		result["dieta"] = map[string]any{"refeicoes": meals}
	}
	if len(notes) > 0 {
		result["observacoes"] = strings.Join(notes, " ")
	}
	return result, nil
}

func parseClientLine(student map[string]any, line string) bool {
	if match := clientNamePattern.FindStringSubmatch(line); match != nil {
		student["nome"] = strings.TrimSpace(match[1])
		return true
	}
	if match := weightPattern.FindStringSubmatch(line); match != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64); err == nil {
			student["peso"] = v
		}
		return true
	}
	if match := heightPattern.FindStringSubmatch(line); match != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64); err == nil {
			student["altura"] = v
		}
		return true
	}
	if match := agePattern.FindStringSubmatch(line); match != nil {
		if v, err := strconv.Atoi(match[1]); err == nil {
			student["idade"] = v
		}
		return true
	}
	if match := goalPattern.FindStringSubmatch(line); match != nil {
		student["objetivo"] = strings.TrimSpace(match[1])
		return true
	}
	return false
}

// splitNameQuantity separates "Arroz branco - 100g" or "Arroz branco 100g"
// into name and quantity. Lines without a numeric token keep the whole text
// as the name; the sanitizer drops entries with no quantity.
func splitNameQuantity(line string) (string, string) {
	if match := splitQtyPattern.FindStringSubmatch(line); match != nil {
		return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
	}
	if match := trailQtyPattern.FindStringSubmatch(line); match != nil {
		return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
	}
	return strings.TrimSpace(line), ""
}

func parseSupplementLine(line string) map[string]any {
	name, dosage := splitNameQuantity(line)
	return map[string]any{
		"nome":    name,
		"dosagem": dosage,
	}
}
