package util

import "strings"

// legalSuffixes is checked in order; the first trailing match is stripped.
var legalSuffixes = []string{
	" LLC",
	" Inc",
	" Corp",
	" Corporation",
	" Ltd",
	" Limited",
	" Co",
	" Company",
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// CleanCompanyName strips at most one legal-entity suffix from the end of
// name (case-insensitive) and trims the result. ok is false when nothing
// searchable is left.
func CleanCompanyName(name string) (cleaned string, ok bool) {
	s := CleanText(name)
	low := strings.ToLower(s)
	for _, suf := range legalSuffixes {
		if strings.HasSuffix(low, strings.ToLower(suf)) {
			s = s[:len(s)-len(suf)]
			break
		}
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
