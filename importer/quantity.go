package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultQuantity is used when a quantity string carries no numeric token.
const DefaultQuantity = 100

var quantityPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseQuantity extracts the numeric magnitude from a free-text quantity
// ("100g" -> 100, "1,5 colheres" -> 1.5). The first numeric token wins; the
// unit text is ignored. Returns ok=false when no numeric token exists.
func ParseQuantity(s string) (float64, bool) {
	token := quantityPattern.FindString(s)
	if token == "" {
		return 0, false
	}
	token = strings.ReplaceAll(token, ",", ".")
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// QuantityOrDefault applies the default-on-failure policy shared by every
// caller that persists a parsed quantity.
func QuantityOrDefault(s string) float64 {
	if v, ok := ParseQuantity(s); ok {
		return v
	}
	return DefaultQuantity
}
