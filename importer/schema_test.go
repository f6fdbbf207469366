package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema_ValidPayload(t *testing.T) {
	raw := []byte(`{
		"aluno": {"nome": "Ana", "peso": 82.5, "altura": 170, "idade": 31, "objetivo": "cutting"},
		"dieta": {
			"nome": "Plano A",
			"refeicoes": [
				{"nome": "Café da Manhã", "alimentos": [{"nome": "Ovo", "quantidade": "2 unidades"}]}
			],
			"macros": {"proteina": 150, "carboidrato": 200, "gordura": 60, "calorias": 2200}
		},
		"suplementos": [{"nome": "Creatina", "dosagem": "5g"}],
		"medicamentos": [],
		"observacoes": null
	}`)
	p, issues := ValidateSchema(raw)
	require.Empty(t, issues)
	require.NotNil(t, p)
	assert.Equal(t, "Ana", p.Student.Name)
	require.NotNil(t, p.Diet)
	assert.Len(t, p.Diet.Meals, 1)
}

func TestValidateSchema_RejectsUnknownRootKey(t *testing.T) {
	raw := []byte(`{"aluno": {"nome": "Ana"}, "extra": 1}`)
	p, issues := ValidateSchema(raw)
	assert.Nil(t, p)
	require.Len(t, issues, 1)
	assert.Equal(t, "extra", issues[0].Path)
	assert.Equal(t, CodeUnknownKey, issues[0].Code)
}

func TestValidateSchema_RejectsUnknownNestedKey(t *testing.T) {
	raw := []byte(`{
		"aluno": {"nome": "Ana", "email": "a@b.com"},
		"dieta": {"refeicoes": [{"nome": "Almoço", "alimentos": [{"nome": "Arroz", "quantidade": "100g", "marca": "x"}]}]}
	}`)
	p, issues := ValidateSchema(raw)
	assert.Nil(t, p)
	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.Path)
	}
	assert.Contains(t, paths, "aluno.email")
	assert.Contains(t, paths, "dieta.refeicoes[0].alimentos[0].marca")
}

func TestValidateSchema_RequiresClient(t *testing.T) {
	p, issues := ValidateSchema([]byte(`{}`))
	assert.Nil(t, p)
	require.Len(t, issues, 1)
	assert.Equal(t, "aluno", issues[0].Path)
	assert.Equal(t, CodeRequired, issues[0].Code)
}

func TestValidateSchema_Bounds(t *testing.T) {
	raw := []byte(fmt.Sprintf(`{
		"aluno": {"nome": %q, "peso": 900, "idade": 31.5}
	}`, strings.Repeat("a", MaxNameLen+1)))
	p, issues := ValidateSchema(raw)
	assert.Nil(t, p)

	codes := map[string]string{}
	for _, issue := range issues {
		codes[issue.Path] = issue.Code
	}
	assert.Equal(t, CodeTooLong, codes["aluno.nome"])
	assert.Equal(t, CodeOutOfRange, codes["aluno.peso"])
	assert.Equal(t, CodeInvalidType, codes["aluno.idade"])
}

func TestValidateSchema_MealNeedsFoods(t *testing.T) {
	raw := []byte(`{
		"aluno": {"nome": "Ana"},
		"dieta": {"refeicoes": [{"nome": "Almoço", "alimentos": []}]}
	}`)
	p, issues := ValidateSchema(raw)
	assert.Nil(t, p)
	require.Len(t, issues, 1)
	assert.Equal(t, "dieta.refeicoes[0].alimentos", issues[0].Path)
	assert.Equal(t, CodeMinItems, issues[0].Code)
}

func TestValidateSchema_IssueListIsBounded(t *testing.T) {
	var foods []string
	for i := 0; i < 30; i++ {
		foods = append(foods, `{"nome": "", "quantidade": ""}`)
	}
	raw := []byte(fmt.Sprintf(`{
		"aluno": {"nome": "Ana"},
		"dieta": {"refeicoes": [{"nome": "Almoço", "alimentos": [%s]}]}
	}`, strings.Join(foods, ",")))
	_, issues := ValidateSchema(raw)
	assert.Len(t, issues, MaxIssues)
}

func TestValidateSchema_InvalidJSON(t *testing.T) {
	p, issues := ValidateSchema([]byte(`{not json`))
	assert.Nil(t, p)
	require.Len(t, issues, 1)
	assert.Equal(t, CodeInvalidJSON, issues[0].Code)
}
