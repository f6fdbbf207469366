// Package catalog resolves free-text food names to durable catalog rows,
// creating foods and food types lazily when nothing matches.
package catalog

import "strings"

// accentReplacer folds the accented characters that show up in Portuguese
// plan text. Extraction output is not guaranteed to be NFC-normalized, so the
// fold list covers the precomposed forms seen in practice.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// NormalizeName produces the canonical lookup key for a food name: lower
// case, accents folded, non-alphanumerics stripped, whitespace collapsed.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = accentReplacer.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// foodAliases maps common colloquial variants (already normalized) to the
// canonical catalog name they should resolve to. Generic names map to one
// specific default on purpose; an exact catalog match always wins before the
// alias table is consulted.
var foodAliases = map[string]string{
	"ovo":               "Ovo inteiro",
	"ovo cozido":        "Ovo inteiro",
	"ovo mexido":        "Ovo inteiro",
	"ovos":              "Ovo inteiro",
	"cooked egg":        "Ovo inteiro",
	"egg":               "Ovo inteiro",
	"pao":               "Pão francês",
	"bread":             "Pão francês",
	"pao de forma":      "Pão de forma integral",
	"frango":            "Peito de frango grelhado",
	"chicken":           "Peito de frango grelhado",
	"arroz":             "Arroz branco cozido",
	"rice":              "Arroz branco cozido",
	"batata":            "Batata inglesa cozida",
	"batata doce":       "Batata doce cozida",
	"carne":             "Patinho moído",
	"carne vermelha":    "Patinho moído",
	"whey":              "Whey protein concentrado",
	"whey protein":      "Whey protein concentrado",
	"aveia":             "Aveia em flocos",
	"oats":              "Aveia em flocos",
	"leite":             "Leite desnatado",
	"milk":              "Leite desnatado",
	"queijo":            "Queijo minas frescal",
	"azeite":            "Azeite de oliva extra virgem",
	"olive oil":         "Azeite de oliva extra virgem",
	"peixe":             "Tilápia grelhada",
	"fish":              "Tilápia grelhada",
	"macarrao":          "Macarrão cozido",
	"pasta":             "Macarrão cozido",
	"feijao":            "Feijão carioca cozido",
	"banana":            "Banana prata",
	"salada":            "Salada de folhas verdes",
	"pasta de amendoim": "Pasta de amendoim integral",
}

// AliasFor returns the canonical catalog name for a colloquial variant, if
// one is registered. The lookup key is the normalized form of the query.
func AliasFor(name string) (string, bool) {
	target, ok := foodAliases[NormalizeName(name)]
	return target, ok
}
