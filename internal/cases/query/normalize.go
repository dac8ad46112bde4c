package query

import "strings"

// Corporate suffixes dropped from name hints before matching. Exports write
// them inconsistently ("S.A.S", "SAS", "LTDA.") so they carry no signal.
var corporateSuffixes = map[string]bool{
	"SAS":  true,
	"SA":   true,
	"LTDA": true,
	"CIA":  true,
}

// normalizeNameHint upper-cases the hint, strips periods and trailing
// corporate suffix tokens. Returns "" when nothing meaningful remains.
func normalizeNameHint(hint string) string {
	hint = strings.ToUpper(strings.TrimSpace(hint))
	hint = strings.ReplaceAll(hint, ".", "")

	tokens := strings.Fields(hint)
	for len(tokens) > 0 && corporateSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// digits strips everything but ASCII digits. Entitlement comparisons run on
// digit sequences so punctuation and check-digit formatting never matter.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// identifiersOverlap reports whether either digit sequence contains the
// other. Both must be non-empty; a caller with no identifier matches nothing.
func identifiersOverlap(a, b string) bool {
	da, db := digits(a), digits(b)
	if da == "" || db == "" {
		return false
	}
	return strings.Contains(da, db) || strings.Contains(db, da)
}
