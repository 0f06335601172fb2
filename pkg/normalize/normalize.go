package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Alias tables for labels the CMS holds in known-bad spellings. Keys are
// base-normalized strings; values are the preferred canonical label. The
// tables are owned by this package and never mutated after init.
var headquarterAliases = map[string]string{
	"managua centro":  "managua",
	"mangua":          "managua",
	"sn salvador":     "san salvador",
	"san  salvador":   "san salvador",
	"tegucigalpa mdc": "tegucigalpa",
	"guatemala city":  "guatemala",
	"cd de guatemala": "guatemala",
}

var roleAliases = map[string]string{
	"alumno":      "student",
	"alumna":      "student",
	"estudiante":  "student",
	"estudiantes": "student",
	"profesor":    "teacher",
	"profesora":   "teacher",
	"instructor":  "teacher",
	"direccion":   "director",
	"admin":       "administrator",
}

// Normalize canonicalizes a free-text label for lookup-map keys: trim,
// lower-case, strip diacritical marks (NFD decomposition, combining-mark
// removal). Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return stripDiacritics(strings.ToLower(strings.TrimSpace(s)))
}

// HeadquarterLabel normalizes an organizational-unit label, resolving known
// CMS misspellings after base normalization.
func HeadquarterLabel(s string) string {
	base := Normalize(s)
	if canonical, ok := headquarterAliases[base]; ok {
		return canonical
	}
	return base
}

// RoleLabel normalizes a role label, resolving known variants after base
// normalization.
func RoleLabel(s string) string {
	base := Normalize(s)
	if canonical, ok := roleAliases[base]; ok {
		return canonical
	}
	return base
}

// stripDiacritics removes diacritical marks from a string. It decomposes the
// string into NFD form and drops combining marks (unicode.Mn).
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}
