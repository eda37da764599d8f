package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// TableNamingStrategy defines how Go struct names are converted to database table names.
type TableNamingStrategy interface {
	TableName(structName string) string
}

type TableNamingType int

const (
	TableAsIs        TableNamingType = iota // Person
	TablePlural                             // People
	TableSnakePlural                        // order_lines
	TableSnake                              // order_line
)

type tableNamingStrategy struct {
	namingType TableNamingType
}

func NewTableNamingStrategy(namingType TableNamingType) TableNamingStrategy {
	return &tableNamingStrategy{namingType: namingType}
}

func (t *tableNamingStrategy) TableName(structName string) string {
	switch t.namingType {
	case TablePlural:
		return pluralize(structName)
	case TableSnakePlural:
		return pluralize(toSnakeCase(structName))
	case TableSnake:
		return toSnakeCase(structName)
	default:
		return structName
	}
}

// toSnakeCase converts any naming convention to snake_case.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 10)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

// pluralize pluralizes the last word of name.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	head, last := "", name
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		head, last = name[:i+1], name[i+1:]
	}
	plural := pluralizeClient.Pluralize(last, 2, false)
	return head + preserveCase(last, plural)
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase preserves the case pattern of the original string in the result.
func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + strings.ToLower(result[1:])
	}
	return strings.ToLower(result)
}
